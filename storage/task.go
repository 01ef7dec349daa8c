// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/state"
)

var one = uint256.NewInt(1)

// Task is everything the constructor records about the bounty.
type Task struct {
	TotalSupply *uint256.Int
	Owner       common.Address
	Reference   common.Hash
	// Executor bounds and the deadline are stored verbatim and never
	// interpreted.
	MinExecutors         common.Hash
	MaxExecutors         common.Hash
	BlocksBeforeDeadline common.Hash
}

func IsInitialized(ctx context.Context, im state.Immutable) (bool, error) {
	w, err := getWord(ctx, im, initializedKey)
	if err != nil {
		return false, err
	}
	return w != (common.Hash{}), nil
}

// StoreTask writes every registry field, zeroes both counters and marks the
// ledger as initialized.
func StoreTask(ctx context.Context, mu state.Mutable, t *Task) error {
	zero := new(uint256.Int)
	if err := setUint(ctx, mu, totalSupplyKey, t.TotalSupply); err != nil {
		return err
	}
	if err := setWord(ctx, mu, ownerKey, common.BytesToHash(t.Owner[:])); err != nil {
		return err
	}
	if err := setWord(ctx, mu, taskKey, t.Reference); err != nil {
		return err
	}
	if err := setWord(ctx, mu, minExecutorsKey, t.MinExecutors); err != nil {
		return err
	}
	if err := setWord(ctx, mu, maxExecutorsKey, t.MaxExecutors); err != nil {
		return err
	}
	if err := setUint(ctx, mu, currentExecutorsKey, zero); err != nil {
		return err
	}
	if err := setUint(ctx, mu, answersSubmittedKey, zero); err != nil {
		return err
	}
	if err := setWord(ctx, mu, deadlineKey, t.BlocksBeforeDeadline); err != nil {
		return err
	}
	return setUint(ctx, mu, initializedKey, one)
}

// GetTask reads back every registry field.
func GetTask(ctx context.Context, im state.Immutable) (*Task, error) {
	supply, err := GetTotalSupply(ctx, im)
	if err != nil {
		return nil, err
	}
	owner, err := GetOwner(ctx, im)
	if err != nil {
		return nil, err
	}
	ref, err := GetTaskReference(ctx, im)
	if err != nil {
		return nil, err
	}
	minExec, err := getWord(ctx, im, minExecutorsKey)
	if err != nil {
		return nil, err
	}
	maxExec, err := getWord(ctx, im, maxExecutorsKey)
	if err != nil {
		return nil, err
	}
	deadline, err := GetBlocksBeforeDeadline(ctx, im)
	if err != nil {
		return nil, err
	}
	return &Task{
		TotalSupply:          supply,
		Owner:                owner,
		Reference:            ref,
		MinExecutors:         minExec,
		MaxExecutors:         maxExec,
		BlocksBeforeDeadline: deadline,
	}, nil
}

func GetTotalSupply(ctx context.Context, im state.Immutable) (*uint256.Int, error) {
	return getUint(ctx, im, totalSupplyKey)
}

func GetOwner(ctx context.Context, im state.Immutable) (common.Address, error) {
	w, err := getWord(ctx, im, ownerKey)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(w[:]), nil
}

func GetTaskReference(ctx context.Context, im state.Immutable) (common.Hash, error) {
	return getWord(ctx, im, taskKey)
}

func GetBlocksBeforeDeadline(ctx context.Context, im state.Immutable) (common.Hash, error) {
	return getWord(ctx, im, deadlineKey)
}

func GetExecutorCount(ctx context.Context, im state.Immutable) (*uint256.Int, error) {
	return getUint(ctx, im, currentExecutorsKey)
}

// IncrementExecutorCount bumps the executor counter by one and returns the
// new count.
func IncrementExecutorCount(ctx context.Context, mu state.Mutable) (*uint256.Int, error) {
	return increment(ctx, mu, currentExecutorsKey)
}

func increment(ctx context.Context, mu state.Mutable, key []byte) (*uint256.Int, error) {
	v, err := getUint(ctx, mu, key)
	if err != nil {
		return nil, err
	}
	v.Add(v, one)
	return v, setUint(ctx, mu, key, v)
}
