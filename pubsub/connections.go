// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is the set of live clients of a server.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

func (c *Connections) Conns() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

func (c *Connections) Add(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns.Add(conn)
}

func (c *Connections) Remove(conn *Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns.Remove(conn)
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}

// Topics tracks which connections subscribed to each message mode. A
// connection may hold any number of subscriptions.
type Topics struct {
	lock   sync.RWMutex
	topics map[byte]set.Set[*Connection]
}

func NewTopics() *Topics {
	return &Topics{
		topics: make(map[byte]set.Set[*Connection]),
	}
}

// Subscribe adds [conn] to [mode] and reports whether it was not subscribed
// already.
func (t *Topics) Subscribe(mode byte, conn *Connection) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	subs := t.topics[mode]
	if subs.Contains(conn) {
		return false
	}
	subs.Add(conn)
	t.topics[mode] = subs
	return true
}

func (t *Topics) Subscribers(mode byte) []*Connection {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.topics[mode].List()
}

func (t *Topics) Len(mode byte) int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.topics[mode].Len()
}

// Drop removes [conn] from every topic.
func (t *Topics) Drop(conn *Connection) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for mode, subs := range t.topics {
		subs.Remove(conn)
		if subs.Len() == 0 {
			delete(t.topics, mode)
		}
	}
}
