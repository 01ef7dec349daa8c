// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type WebSocketClient struct {
	conn *websocket.Conn
	wl   sync.Mutex
	tl   sync.Mutex
	cl   sync.Once
}

// NewWebSocketClient dials into the server at [uri] and returns a client.
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri += WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// RegisterTransfers subscribes to committed transfers.
func (c *WebSocketClient) RegisterTransfers() error {
	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, []byte{TransferMode})
}

// ListenTransfer blocks until the next transfer arrives.
func (c *WebSocketClient) ListenTransfer() (*TransferMessage, error) {
	c.tl.Lock()
	defer c.tl.Unlock()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if len(msg) > 0 && msg[0] == TransferMode {
			return UnpackTransferMessage(msg)
		}
	}
}

// Close closes [c]'s connection to the server.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
