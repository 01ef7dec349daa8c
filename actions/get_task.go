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
	_ chain.Action = (*GetTask)(nil)
	_ chain.Typed  = (*GetTaskResult)(nil)
)

// GetTask registers the caller as one more executor and hands back the task
// reference. Every call counts, including repeated calls by the same
// caller.
type GetTask struct{}

func (*GetTask) GetTypeID() uint8 {
	return GetTaskID
}

func (*GetTask) ReadOnly() bool {
	return false
}

func (*GetTask) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	executors, err := storage.IncrementExecutorCount(ctx, mu)
	if err != nil {
		return nil, err
	}
	task, err := storage.GetTaskReference(ctx, mu)
	if err != nil {
		return nil, err
	}
	return &GetTaskResult{
		Task:      task,
		Executors: executors,
	}, nil
}

type GetTaskResult struct {
	Task common.Hash `json:"task"`
	// Executors is the executor count after this call.
	Executors *uint256.Int `json:"executors"`
}

func (*GetTaskResult) GetTypeID() uint8 {
	return GetTaskID
}
