// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/event"
	"github.com/ava-labs/taskescrow/pubsub"
)

var _ event.Subscription[*chain.TransferEvent] = (*WebSocketServer)(nil)

// WebSocketServer streams committed transfers to every client that
// registered for them.
type WebSocketServer struct {
	log      logging.Logger
	contract common.Address
	s        *pubsub.Server
}

func NewWebSocketServer(
	log logging.Logger,
	contract common.Address,
	cfg *pubsub.ServerConfig,
) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		log:      log,
		contract: contract,
	}
	w.s = pubsub.New(log, cfg, w.MessageCallback())
	return w, w.s
}

// MessageCallback handles registration requests. Each message is a single
// mode byte.
func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	return func(msg []byte, c *pubsub.Connection) {
		if len(msg) == 0 {
			w.log.Debug("failed to unmarshal msg",
				zap.Error(ErrMessageMissing),
			)
			return
		}
		switch msg[0] {
		case TransferMode:
			w.s.Subscribe(TransferMode, c)
		default:
			w.log.Debug("unknown websocket message",
				zap.Uint8("mode", msg[0]),
			)
		}
	}
}

// Accept publishes [transfer] to every registered listener.
func (w *WebSocketServer) Accept(_ context.Context, transfer *chain.TransferEvent) error {
	if w.s.Subscribers(TransferMode) == 0 {
		return nil
	}
	b, err := PackTransferMessage(w.contract, transfer)
	if err != nil {
		return err
	}
	w.s.Publish(TransferMode, b)
	return nil
}

// Close disconnects every client.
func (w *WebSocketServer) Close() error {
	w.s.Close()
	return nil
}
