// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name              = "taskescrow"
	JSONRPCEndpoint   = "/rpc"
	WebSocketEndpoint = "/ws"
)

// Websocket message modes. The first byte of every message names its mode.
const (
	TransferMode byte = 0
)
