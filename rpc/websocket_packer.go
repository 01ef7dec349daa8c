// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ava-labs/taskescrow/abi"
	"github.com/ava-labs/taskescrow/chain"
)

// TransferMessage carries a committed transfer and its Ethereum log
// encoding.
type TransferMessage struct {
	Event *chain.TransferEvent `json:"event"`
	Log   *types.Log           `json:"log"`
}

func PackTransferMessage(contract common.Address, event *chain.TransferEvent) ([]byte, error) {
	log, err := abi.TransferLog(contract, event)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(&TransferMessage{
		Event: event,
		Log:   log,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte{TransferMode}, b...), nil
}

func UnpackTransferMessage(msg []byte) (*TransferMessage, error) {
	if len(msg) == 0 {
		return nil, ErrMessageMissing
	}
	if msg[0] != TransferMode {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, msg[0])
	}
	var m TransferMessage
	if err := json.Unmarshal(msg[1:], &m); err != nil {
		return nil, err
	}
	return &m, nil
}
