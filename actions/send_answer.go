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
	_ chain.Action = (*SendAnswer)(nil)
	_ chain.Typed  = (*SendAnswerResult)(nil)
)

// SendAnswer appends [Answer] to the answer log. The first answer lands at
// index 1.
type SendAnswer struct {
	Answer *uint256.Int `json:"answer"`
}

func (*SendAnswer) GetTypeID() uint8 {
	return SendAnswerID
}

func (*SendAnswer) ReadOnly() bool {
	return false
}

func (s *SendAnswer) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if s.Answer == nil {
		return nil, ErrNilValue
	}
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	count, err := storage.IncrementAnswersSubmitted(ctx, mu)
	if err != nil {
		return nil, err
	}
	capacity := r.GetAnswerCapacity()
	if !count.IsUint64() || count.Uint64() >= capacity {
		return nil, fmt.Errorf("%w: index=%d capacity=%d", ErrCapacityExceeded, count, capacity)
	}
	index := count.Uint64()
	if err := storage.SetAnswer(ctx, mu, index, s.Answer); err != nil {
		return nil, err
	}
	return &SendAnswerResult{
		Success: true,
		Index:   index,
	}, nil
}

type SendAnswerResult struct {
	Success bool   `json:"success"`
	Index   uint64 `json:"index"`
}

func (*SendAnswerResult) GetTypeID() uint8 {
	return SendAnswerID
}
