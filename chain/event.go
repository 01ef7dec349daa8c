// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var _ Emitter = (*EventLog)(nil)

// TransferEvent records value moving between two balances.
type TransferEvent struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *uint256.Int   `json:"value"`
}

// EventLog buffers the events raised by a single call.
type EventLog struct {
	transfers []*TransferEvent
}

func (l *EventLog) EmitTransfer(from common.Address, to common.Address, value *uint256.Int) {
	l.transfers = append(l.transfers, &TransferEvent{
		From:  from,
		To:    to,
		Value: new(uint256.Int).Set(value),
	})
}

func (l *EventLog) Transfers() []*TransferEvent {
	return l.transfers
}
