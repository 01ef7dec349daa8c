// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	_ chain.Action = (*GetDeadline)(nil)
	_ chain.Typed  = (*GetDeadlineResult)(nil)
)

type GetDeadline struct{}

func (*GetDeadline) GetTypeID() uint8 {
	return GetDeadlineID
}

func (*GetDeadline) ReadOnly() bool {
	return true
}

func (*GetDeadline) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	blocks, err := storage.GetBlocksBeforeDeadline(ctx, mu)
	if err != nil {
		return nil, err
	}
	return &GetDeadlineResult{Blocks: blocks}, nil
}

type GetDeadlineResult struct {
	// Blocks is returned exactly as the constructor stored it.
	Blocks common.Hash `json:"blocks"`
}

func (*GetDeadlineResult) GetTypeID() uint8 {
	return GetDeadlineID
}
