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
	_ chain.Action = (*BalanceOf)(nil)
	_ chain.Action = (*Answer)(nil)
	_ chain.Action = (*Status)(nil)
)

type BalanceOf struct {
	Address common.Address `json:"address"`
}

func (*BalanceOf) GetTypeID() uint8 {
	return BalanceOfID
}

func (*BalanceOf) ReadOnly() bool {
	return true
}

func (b *BalanceOf) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	bal, err := storage.GetBalance(ctx, mu, b.Address)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{Balance: bal}, nil
}

type BalanceResult struct {
	Balance *uint256.Int `json:"balance"`
}

func (*BalanceResult) GetTypeID() uint8 {
	return BalanceOfID
}

// Answer reads one slot of the answer log. Slots that were never written,
// including slot 0, read as zero.
type Answer struct {
	Index uint64 `json:"index"`
}

func (*Answer) GetTypeID() uint8 {
	return AnswerID
}

func (*Answer) ReadOnly() bool {
	return true
}

func (a *Answer) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	if err := requireInitialized(ctx, mu); err != nil {
		return nil, err
	}
	answer, err := storage.GetAnswer(ctx, mu, a.Index)
	if err != nil {
		return nil, err
	}
	return &AnswerResult{Answer: answer}, nil
}

type AnswerResult struct {
	Answer *uint256.Int `json:"answer"`
}

func (*AnswerResult) GetTypeID() uint8 {
	return AnswerID
}

// Status summarizes the ledger. Unlike every other operation it succeeds
// before construction and reports Initialized=false.
type Status struct{}

func (*Status) GetTypeID() uint8 {
	return StatusID
}

func (*Status) ReadOnly() bool {
	return true
}

func (*Status) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	_ common.Address,
	_ chain.Emitter,
) (chain.Typed, error) {
	initialized, err := storage.IsInitialized(ctx, mu)
	if err != nil {
		return nil, err
	}
	if !initialized {
		return &StatusResult{}, nil
	}
	task, err := storage.GetTask(ctx, mu)
	if err != nil {
		return nil, err
	}
	executors, err := storage.GetExecutorCount(ctx, mu)
	if err != nil {
		return nil, err
	}
	answers, err := storage.GetAnswersSubmitted(ctx, mu)
	if err != nil {
		return nil, err
	}
	contractBalance, err := storage.GetBalance(ctx, mu, r.GetContractAddress())
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		Initialized:          true,
		Owner:                task.Owner,
		TotalSupply:          task.TotalSupply,
		Task:                 task.Reference,
		MinExecutors:         task.MinExecutors,
		MaxExecutors:         task.MaxExecutors,
		BlocksBeforeDeadline: task.BlocksBeforeDeadline,
		Executors:            executors,
		AnswersSubmitted:     answers,
		ContractBalance:      contractBalance,
	}, nil
}

type StatusResult struct {
	Initialized          bool           `json:"initialized"`
	Owner                common.Address `json:"owner"`
	TotalSupply          *uint256.Int   `json:"totalSupply"`
	Task                 common.Hash    `json:"task"`
	MinExecutors         common.Hash    `json:"minExecutors"`
	MaxExecutors         common.Hash    `json:"maxExecutors"`
	BlocksBeforeDeadline common.Hash    `json:"blocksBeforeDeadline"`
	Executors            *uint256.Int   `json:"executors"`
	AnswersSubmitted     *uint256.Int   `json:"answersSubmitted"`
	ContractBalance      *uint256.Int   `json:"contractBalance"`
}

func (*StatusResult) GetTypeID() uint8 {
	return StatusID
}
