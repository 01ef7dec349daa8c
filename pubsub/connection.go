// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Connection is a single websocket client. Exactly one goroutine reads from
// it and exactly one writes to it.
type Connection struct {
	s    *Server
	conn *websocket.Conn

	// [send] is closed once [active] flips to false, both under [sendLock].
	sendLock sync.Mutex
	send     chan []byte
	active   atomic.Bool
}

func newConnection(s *Server, conn *websocket.Conn) *Connection {
	c := &Connection{
		s:    s,
		conn: conn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}
	c.active.Store(true)
	return c
}

func (c *Connection) deactivate() {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()

	if c.active.CompareAndSwap(true, false) {
		close(c.send)
	}
}

// Send queues [msg] without blocking and reports whether it was queued.
func (c *Connection) Send(msg []byte) bool {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()

	if !c.active.Load() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// shutdown runs when either pump exits. The second call fails to close the
// socket, which is ignored.
func (c *Connection) shutdown() {
	c.s.removeConnection(c)
	c.deactivate()
	_ = c.conn.Close()
}

func (c *Connection) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected websocket close",
					zap.Error(err),
				)
			}
			return
		}
		if c.s.callback != nil {
			c.s.callback(msg, c)
		}
	}
}

// write sends a single frame within the configured write deadline.
func (c *Connection) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		var err error
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			err = c.write(websocket.BinaryMessage, msg)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			c.s.log.Debug("closing websocket connection",
				zap.Error(err),
			)
			return
		}
	}
}
