// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	_ chain.Action = (*TransferReward)(nil)
	_ chain.Typed  = (*TransferRewardResult)(nil)
)

// TransferReward pays [Amount] from the contract balance to [To] once for
// every registered executor except one. Only the owner may call it.
//
// A rejected iteration stops the loop and reports failure, but every
// transfer made by earlier iterations stands.
type TransferReward struct {
	To     common.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

func (*TransferReward) GetTypeID() uint8 {
	return TransferRewardID
}

func (*TransferReward) ReadOnly() bool {
	return false
}

func (t *TransferReward) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	actor common.Address,
	emitter chain.Emitter,
) (chain.Typed, error) {
	if t.Amount == nil {
		return nil, ErrNilValue
	}
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	owner, err := storage.GetOwner(ctx, mu)
	if err != nil {
		return nil, err
	}
	if actor != owner {
		return &TransferRewardResult{}, nil
	}
	executors, err := storage.GetExecutorCount(ctx, mu)
	if err != nil {
		return nil, err
	}

	contract := r.GetContractAddress()
	result := &TransferRewardResult{}
	// Runs executors-1 times, and not at all with fewer than two executors.
	for i := uint256.NewInt(1); i.Lt(executors); i.AddUint64(i, 1) {
		contractBalance, err := storage.GetBalance(ctx, mu, contract)
		if err != nil {
			return nil, err
		}
		if t.Amount.IsZero() || contractBalance.Lt(t.Amount) || t.To == contract {
			return result, nil
		}
		if _, err := storage.SubBalance(ctx, mu, contract, t.Amount); err != nil {
			return nil, err
		}
		if _, err := storage.AddBalance(ctx, mu, t.To, t.Amount); err != nil {
			return nil, err
		}
		emitter.EmitTransfer(contract, t.To, t.Amount)
		result.Transfers, err = math.Add(result.Transfers, 1)
		if err != nil {
			return nil, err
		}
	}
	result.Success = true
	return result, nil
}

type TransferRewardResult struct {
	Success bool `json:"success"`
	// Transfers made before the call finished or stopped.
	Transfers uint64 `json:"transfers"`
}

func (*TransferRewardResult) GetTypeID() uint8 {
	return TransferRewardID
}
