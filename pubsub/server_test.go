// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	uri := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// TestServerPublish connects a client, publishes a message to it and checks
// the connection is removed once the client leaves.
func TestServerPublish(t *testing.T) {
	require := require.New(t)

	received := make(chan []byte, 1)
	server := New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		received <- msg
		_ = c.Send([]byte("ack"))
	})
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	select {
	case msg := <-received:
		require.Equal([]byte("hello"), msg)
	case <-time.After(5 * time.Second):
		require.FailNow("callback not invoked")
	}
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("ack"), msg)

	require.Equal(1, server.Len())
	server.Broadcast([]byte("dummy_msg"))
	_, msg, err = conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("dummy_msg"), msg)

	require.NoError(conn.Close())
	require.Eventually(func() bool {
		return server.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServerTopics(t *testing.T) {
	require := require.New(t)

	const mode byte = 1
	var server *Server
	server = New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		server.Subscribe(msg[0], c)
	})
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, []byte{mode}))
	require.Eventually(func() bool {
		return server.Subscribers(mode) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(1, server.Publish(mode, []byte("one")))
	require.Zero(server.Publish(mode+1, []byte("other")))
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("one"), msg)

	server.Close()
	require.Zero(server.Len())
	require.Zero(server.Subscribers(mode))
	require.Zero(server.Publish(mode, []byte("two")))
}

func TestTopics(t *testing.T) {
	require := require.New(t)

	server := New(logging.NoLog{}, NewDefaultServerConfig(), nil)
	a := newConnection(server, nil)
	b := newConnection(server, nil)

	topics := NewTopics()
	require.True(topics.Subscribe(0, a))
	require.False(topics.Subscribe(0, a))
	require.True(topics.Subscribe(0, b))
	require.True(topics.Subscribe(1, a))
	require.Equal(2, topics.Len(0))
	require.Equal(1, topics.Len(1))

	topics.Drop(a)
	require.Equal([]*Connection{b}, topics.Subscribers(0))
	require.Zero(topics.Len(1))
}

func TestConnectionDropsWhenFull(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultServerConfig()
	cfg.MaxPendingMessages = 1
	server := New(logging.NoLog{}, cfg, nil)

	// Never started, so nothing drains the queue.
	conn := newConnection(server, nil)
	require.True(conn.Send([]byte("first")))
	require.False(conn.Send([]byte("second")))

	conn.deactivate()
	require.False(conn.Send([]byte("third")))
}
