// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/event"
	"github.com/ava-labs/taskescrow/state"
)

var ErrUnexpectedResult = errors.New("unexpected result type")

// Contract exposes one method per escrow operation. Calls are serialized by
// the underlying processor.
type Contract struct {
	log       logging.Logger
	processor *chain.Processor
}

func New(
	log logging.Logger,
	db state.Database,
	rules chain.Rules,
	registerer prometheus.Registerer,
	subs ...event.Subscription[*chain.TransferEvent],
) (*Contract, error) {
	processor, err := chain.NewProcessor(log, rules, db, registerer, subs...)
	if err != nil {
		return nil, err
	}
	return &Contract{
		log:       log,
		processor: processor,
	}, nil
}

func (c *Contract) Rules() chain.Rules {
	return c.processor.Rules()
}

// Execute runs any action as [caller].
func (c *Contract) Execute(ctx context.Context, caller common.Address, action chain.Action) (chain.Typed, error) {
	return c.processor.Execute(ctx, caller, action)
}

func execute[T chain.Typed](ctx context.Context, c *Contract, caller common.Address, action chain.Action) (T, error) {
	var empty T
	result, err := c.processor.Execute(ctx, caller, action)
	if err != nil {
		return empty, err
	}
	typed, ok := result.(T)
	if !ok {
		return empty, fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return typed, nil
}

func (c *Contract) Construct(
	ctx context.Context,
	caller common.Address,
	totalSupply *uint256.Int,
	task common.Hash,
	minExecutors common.Hash,
	maxExecutors common.Hash,
	blocksBeforeDeadline common.Hash,
) error {
	_, err := execute[*actions.ConstructResult](ctx, c, caller, &actions.Construct{
		TotalSupply:          totalSupply,
		Task:                 task,
		MinExecutors:         minExecutors,
		MaxExecutors:         maxExecutors,
		BlocksBeforeDeadline: blocksBeforeDeadline,
	})
	if err != nil {
		return err
	}
	c.log.Info("contract constructed",
		zap.Stringer("owner", caller),
		zap.Stringer("totalSupply", totalSupply),
		zap.Stringer("task", task),
	)
	return nil
}

// GetTask registers [caller] as an executor and returns the task reference.
func (c *Contract) GetTask(ctx context.Context, caller common.Address) (common.Hash, error) {
	result, err := execute[*actions.GetTaskResult](ctx, c, caller, &actions.GetTask{})
	if err != nil {
		return common.Hash{}, err
	}
	return result.Task, nil
}

func (c *Contract) GetNumberOfBlocksBeforeDeadline(ctx context.Context) (common.Hash, error) {
	result, err := execute[*actions.GetDeadlineResult](ctx, c, common.Address{}, &actions.GetDeadline{})
	if err != nil {
		return common.Hash{}, err
	}
	return result.Blocks, nil
}

func (c *Contract) GetCurrentReward(ctx context.Context) (*uint256.Int, error) {
	result, err := execute[*actions.GetCurrentRewardResult](ctx, c, common.Address{}, &actions.GetCurrentReward{})
	if err != nil {
		return nil, err
	}
	return result.Reward, nil
}

func (c *Contract) SendAnswer(ctx context.Context, caller common.Address, answer *uint256.Int) (bool, error) {
	result, err := execute[*actions.SendAnswerResult](ctx, c, caller, &actions.SendAnswer{Answer: answer})
	if err != nil {
		return false, err
	}
	return result.Success, nil
}

// TransferReward reports false, without error, when [caller] is not the
// owner or a payout is rejected.
func (c *Contract) TransferReward(
	ctx context.Context,
	caller common.Address,
	to common.Address,
	amount *uint256.Int,
) (bool, error) {
	result, err := execute[*actions.TransferRewardResult](ctx, c, caller, &actions.TransferReward{
		To:     to,
		Amount: amount,
	})
	if err != nil {
		return false, err
	}
	if !result.Success {
		c.log.Debug("reward transfer rejected",
			zap.Stringer("caller", caller),
			zap.Stringer("to", to),
			zap.Uint64("transfers", result.Transfers),
		)
	}
	return result.Success, nil
}

func (c *Contract) Deposit(ctx context.Context, caller common.Address, amount *uint256.Int) error {
	_, err := execute[*actions.DepositResult](ctx, c, caller, &actions.Deposit{Amount: amount})
	return err
}

func (c *Contract) BalanceOf(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	result, err := execute[*actions.BalanceResult](ctx, c, common.Address{}, &actions.BalanceOf{Address: addr})
	if err != nil {
		return nil, err
	}
	return result.Balance, nil
}

func (c *Contract) Answer(ctx context.Context, index uint64) (*uint256.Int, error) {
	result, err := execute[*actions.AnswerResult](ctx, c, common.Address{}, &actions.Answer{Index: index})
	if err != nil {
		return nil, err
	}
	return result.Answer, nil
}

func (c *Contract) Status(ctx context.Context) (*actions.StatusResult, error) {
	return execute[*actions.StatusResult](ctx, c, common.Address{}, &actions.Status{})
}

func (c *Contract) AnswersSubmitted(ctx context.Context) (*uint256.Int, error) {
	status, err := c.initializedStatus(ctx)
	if err != nil {
		return nil, err
	}
	return status.AnswersSubmitted, nil
}

func (c *Contract) ExecutorCount(ctx context.Context) (*uint256.Int, error) {
	status, err := c.initializedStatus(ctx)
	if err != nil {
		return nil, err
	}
	return status.Executors, nil
}

func (c *Contract) initializedStatus(ctx context.Context) (*actions.StatusResult, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Initialized {
		return nil, actions.ErrNotInitialized
	}
	return status, nil
}

// Close stops the processor. The ledger is left open for its owner to
// close.
func (c *Contract) Close() error {
	return c.processor.Close()
}
