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
	_ chain.Action = (*GetCurrentReward)(nil)
	_ chain.Typed  = (*GetCurrentRewardResult)(nil)
)

// GetCurrentReward is the total supply split evenly across every executor
// registered so far, rounded down.
type GetCurrentReward struct{}

func (*GetCurrentReward) GetTypeID() uint8 {
	return GetCurrentRewardID
}

func (*GetCurrentReward) ReadOnly() bool {
	return true
}

func (*GetCurrentReward) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	executors, err := storage.GetExecutorCount(ctx, mu)
	if err != nil {
		return nil, err
	}
	if executors.IsZero() {
		return nil, ErrDivisionByZero
	}
	supply, err := storage.GetTotalSupply(ctx, mu)
	if err != nil {
		return nil, err
	}
	return &GetCurrentRewardResult{
		Reward: new(uint256.Int).Div(supply, executors),
	}, nil
}

type GetCurrentRewardResult struct {
	Reward *uint256.Int `json:"reward"`
}

func (*GetCurrentRewardResult) GetTypeID() uint8 {
	return GetCurrentRewardID
}
