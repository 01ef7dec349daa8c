// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	_ chain.Action = (*Construct)(nil)
	_ chain.Typed  = (*ConstructResult)(nil)
)

// Construct records the task and credits the whole supply to the caller,
// who becomes the owner. It can only run once per ledger.
type Construct struct {
	TotalSupply *uint256.Int `json:"totalSupply"`

	// Task is an opaque reference to the off-ledger task description.
	Task common.Hash `json:"task"`

	MinExecutors         common.Hash `json:"minExecutors"`
	MaxExecutors         common.Hash `json:"maxExecutors"`
	BlocksBeforeDeadline common.Hash `json:"blocksBeforeDeadline"`
}

func (*Construct) GetTypeID() uint8 {
	return ConstructID
}

func (*Construct) ReadOnly() bool {
	return false
}

func (c *Construct) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	actor common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if c.TotalSupply == nil {
		return nil, ErrNilValue
	}
	initialized, err := storage.IsInitialized(ctx, mu)
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}
	if err := storage.SetBalance(ctx, mu, actor, c.TotalSupply); err != nil {
		return nil, err
	}
	if err := storage.StoreTask(ctx, mu, &storage.Task{
		TotalSupply:          c.TotalSupply,
		Owner:                actor,
		Reference:            c.Task,
		MinExecutors:         c.MinExecutors,
		MaxExecutors:         c.MaxExecutors,
		BlocksBeforeDeadline: c.BlocksBeforeDeadline,
	}); err != nil {
		return nil, err
	}
	return &ConstructResult{
		Owner:   actor,
		Balance: new(uint256.Int).Set(c.TotalSupply),
	}, nil
}

type ConstructResult struct {
	Owner   common.Address `json:"owner"`
	Balance *uint256.Int   `json:"balance"`
}

func (*ConstructResult) GetTypeID() uint8 {
	return ConstructID
}
