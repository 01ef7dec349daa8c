// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer. Messages past
	// this bound are dropped.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int `json:"maxReadMessageSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:     readBufferSize,
		WriteBufferSize:    writeBufferSize,
		MaxPendingMessages: maxPendingMessages,
		MaxReadMessageSize: maxReadMessageSize,
		WriteWait:          writeWait,
		PongWait:           pongWait,
		PingPeriod:         pingPeriod,
	}
}

// Callback processes a message read from [c].
type Callback func(msg []byte, c *Connection)

// Server upgrades HTTP requests to websocket clients and fans messages out to
// them, either to everyone or to the subscribers of a mode.
type Server struct {
	log    logging.Logger
	config *ServerConfig

	upgrader *websocket.Upgrader
	conns    *Connections
	topics   *Topics
	callback Callback
}

// New returns a Server that invokes [callback], if not nil, for every message
// a client sends.
func New(log logging.Logger, config *ServerConfig, callback Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		topics:   NewTopics(),
		callback: callback,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := newConnection(s, wsConn)
	s.conns.Add(conn)
	s.log.Debug("client connected",
		zap.Stringer("remote", wsConn.RemoteAddr()),
	)

	go conn.writePump()
	go conn.readPump()
}

// Subscribe registers [conn] for messages published under [mode].
func (s *Server) Subscribe(mode byte, conn *Connection) {
	if !s.conns.Has(conn) {
		return
	}
	if s.topics.Subscribe(mode, conn) {
		s.log.Debug("client subscribed",
			zap.Uint8("mode", mode),
		)
	}
}

// Subscribers returns the number of clients subscribed to [mode].
func (s *Server) Subscribers(mode byte) int {
	return s.topics.Len(mode)
}

// Publish queues [msg] for every subscriber of [mode] and returns how many
// accepted it.
func (s *Server) Publish(mode byte, msg []byte) int {
	return s.send(msg, s.topics.Subscribers(mode))
}

// Broadcast queues [msg] for every connected client.
func (s *Server) Broadcast(msg []byte) int {
	return s.send(msg, s.conns.Conns())
}

func (s *Server) send(msg []byte, conns []*Connection) int {
	sent := 0
	for _, conn := range conns {
		if conn.Send(msg) {
			sent++
			continue
		}
		s.log.Verbo("dropping message",
			zap.Int("pending", len(conn.send)),
		)
	}
	return sent
}

// Len returns the number of connected clients.
func (s *Server) Len() int {
	return s.conns.Len()
}

// Close drops every connection.
func (s *Server) Close() {
	for _, conn := range s.conns.Conns() {
		s.removeConnection(conn)
		conn.deactivate()
	}
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
	s.topics.Drop(conn)
}
