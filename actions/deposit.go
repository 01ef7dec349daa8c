// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	_ chain.Action = (*Deposit)(nil)
	_ chain.Typed  = (*DepositResult)(nil)
)

// Deposit moves [Amount] from the caller into the contract balance that
// funds reward payouts.
type Deposit struct {
	Amount *uint256.Int `json:"amount"`
}

func (*Deposit) GetTypeID() uint8 {
	return DepositID
}

func (*Deposit) ReadOnly() bool {
	return false
}

func (d *Deposit) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor common.Address,
	emitter chain.Emitter,
) (chain.Typed, error) {
	if d.Amount == nil {
		return nil, ErrNilValue
	}
	if d.Amount.IsZero() {
		return nil, ErrValueZero
	}
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	contract := r.GetContractAddress()
	if actor == contract {
		return nil, ErrSelfTransfer
	}
	bal, err := storage.GetBalance(ctx, mu, actor)
	if err != nil {
		return nil, err
	}
	if bal.Lt(d.Amount) {
		return nil, fmt.Errorf("%w: balance=%d amount=%d", ErrInsufficientBalance, bal, d.Amount)
	}
	senderBalance, err := storage.SubBalance(ctx, mu, actor, d.Amount)
	if err != nil {
		return nil, err
	}
	contractBalance, err := storage.AddBalance(ctx, mu, contract, d.Amount)
	if err != nil {
		return nil, err
	}
	emitter.EmitTransfer(actor, contract, d.Amount)
	return &DepositResult{
		SenderBalance:   senderBalance,
		ContractBalance: contractBalance,
	}, nil
}

type DepositResult struct {
	SenderBalance   *uint256.Int `json:"senderBalance"`
	ContractBalance *uint256.Int `json:"contractBalance"`
}

func (*DepositResult) GetTypeID() uint8 {
	return DepositID
}
