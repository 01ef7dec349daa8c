// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package abi exposes the escrow through Ethereum ABI encoded call data.
package abi

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	_ "embed"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/contract"
)

const (
	selectorLen       = 4
	transferEventName = "Transfer"
)

//go:embed contract.abi.json
var contractABI []byte

var parsed = mustParse()

func mustParse() gethabi.ABI {
	a, err := gethabi.JSON(bytes.NewReader(contractABI))
	if err != nil {
		panic(err)
	}
	return a
}

// ABI returns the parsed contract interface.
func ABI() gethabi.ABI {
	return parsed
}

// Endpoint decodes call data into escrow operations and encodes their
// results.
type Endpoint struct {
	contract *contract.Contract
}

func New(c *contract.Contract) *Endpoint {
	return &Endpoint{contract: c}
}

// DispatchConstructor runs the constructor with raw ABI encoded arguments
// (no selector).
func (e *Endpoint) DispatchConstructor(ctx context.Context, caller common.Address, args []byte) error {
	values, err := parsed.Constructor.Inputs.Unpack(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	construct, err := decodeConstruct(values)
	if err != nil {
		return err
	}
	return e.contract.Construct(
		ctx,
		caller,
		construct.TotalSupply,
		construct.Task,
		construct.MinExecutors,
		construct.MaxExecutors,
		construct.BlocksBeforeDeadline,
	)
}

// Dispatch selects a method by the 4 byte selector at the start of [input],
// runs it as [caller] and returns the ABI encoded outputs.
func (e *Endpoint) Dispatch(ctx context.Context, caller common.Address, input []byte) ([]byte, error) {
	if len(input) < selectorLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooShort, len(input))
	}
	method, err := parsed.MethodById(input[:selectorLen])
	if err != nil {
		return nil, fmt.Errorf("%w: %x", ErrUnknownMethod, input[:selectorLen])
	}
	values, err := method.Inputs.Unpack(input[selectorLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, method.Name, err)
	}
	action, err := decodeAction(method.Name, values)
	if err != nil {
		return nil, err
	}
	result, err := e.contract.Execute(ctx, caller, action)
	if err != nil {
		return nil, err
	}
	outputs, err := encodeResult(result)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(outputs...)
}

// TransferLog encodes [event] as an Ethereum log emitted by [address].
func TransferLog(address common.Address, event *chain.TransferEvent) (*types.Log, error) {
	ev := parsed.Events[transferEventName]
	data, err := ev.Inputs.NonIndexed().Pack(event.Value.ToBig())
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: address,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(event.From.Bytes()),
			common.BytesToHash(event.To.Bytes()),
		},
		Data: data,
	}, nil
}

// ParseTransferLog is the inverse of [TransferLog].
func ParseTransferLog(log *types.Log) (*chain.TransferEvent, error) {
	ev := parsed.Events[transferEventName]
	if len(log.Topics) != 3 || log.Topics[0] != ev.ID {
		return nil, fmt.Errorf("%w: not a transfer log", ErrInvalidArgument)
	}
	values, err := ev.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, err
	}
	value, err := toUint256(values[0])
	if err != nil {
		return nil, err
	}
	return &chain.TransferEvent{
		From:  common.BytesToAddress(log.Topics[1].Bytes()),
		To:    common.BytesToAddress(log.Topics[2].Bytes()),
		Value: value,
	}, nil
}

// Pack encodes a call to [method], selector included.
func Pack(method string, args ...interface{}) ([]byte, error) {
	return parsed.Pack(method, args...)
}

// PackConstructor encodes constructor arguments, without a selector.
func PackConstructor(
	totalSupply *uint256.Int,
	task common.Hash,
	minExecutors common.Hash,
	maxExecutors common.Hash,
	blocksBeforeDeadline common.Hash,
) ([]byte, error) {
	return parsed.Pack(
		"",
		totalSupply.ToBig(),
		[32]byte(task),
		[32]byte(minExecutors),
		[32]byte(maxExecutors),
		[32]byte(blocksBeforeDeadline),
	)
}

// Unpack decodes the outputs of [method].
func Unpack(method string, data []byte) ([]interface{}, error) {
	return parsed.Unpack(method, data)
}

func decodeConstruct(values []interface{}) (*actions.Construct, error) {
	if len(values) != 5 {
		return nil, fmt.Errorf("%w: expected 5 constructor arguments, got %d", ErrInvalidArgument, len(values))
	}
	supply, err := toUint256(values[0])
	if err != nil {
		return nil, err
	}
	words := make([]common.Hash, 4)
	for i := range words {
		w, err := toHash(values[i+1])
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return &actions.Construct{
		TotalSupply:          supply,
		Task:                 words[0],
		MinExecutors:         words[1],
		MaxExecutors:         words[2],
		BlocksBeforeDeadline: words[3],
	}, nil
}

func decodeAction(method string, values []interface{}) (chain.Action, error) {
	switch method {
	case "getTask":
		return &actions.GetTask{}, nil
	case "getNumberOfBlocksBeforeDeadline":
		return &actions.GetDeadline{}, nil
	case "getCurrentReward":
		return &actions.GetCurrentReward{}, nil
	case "sendAnswer":
		answer, err := toUint256(values[0])
		if err != nil {
			return nil, err
		}
		return &actions.SendAnswer{Answer: answer}, nil
	case "transferReward":
		to, ok := values[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an address", ErrInvalidArgument, values[0])
		}
		amount, err := toUint256(values[1])
		if err != nil {
			return nil, err
		}
		return &actions.TransferReward{To: to, Amount: amount}, nil
	case "deposit":
		amount, err := toUint256(values[0])
		if err != nil {
			return nil, err
		}
		return &actions.Deposit{Amount: amount}, nil
	case "balanceOf":
		addr, ok := values[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an address", ErrInvalidArgument, values[0])
		}
		return &actions.BalanceOf{Address: addr}, nil
	case "answer":
		index, ok := values[0].(uint64)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a uint64", ErrInvalidArgument, values[0])
		}
		return &actions.Answer{Index: index}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func encodeResult(result chain.Typed) ([]interface{}, error) {
	switch r := result.(type) {
	case *actions.GetTaskResult:
		return []interface{}{[32]byte(r.Task)}, nil
	case *actions.GetDeadlineResult:
		return []interface{}{[32]byte(r.Blocks)}, nil
	case *actions.GetCurrentRewardResult:
		return []interface{}{r.Reward.Bytes32()}, nil
	case *actions.SendAnswerResult:
		return []interface{}{r.Success}, nil
	case *actions.TransferRewardResult:
		return []interface{}{r.Success}, nil
	case *actions.DepositResult:
		return nil, nil
	case *actions.BalanceResult:
		return []interface{}{r.Balance.ToBig()}, nil
	case *actions.AnswerResult:
		return []interface{}{r.Answer.ToBig()}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedType, result)
	}
}

func toUint256(v interface{}) (*uint256.Int, error) {
	b, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a uint256", ErrInvalidArgument, v)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %s overflows uint256", ErrInvalidArgument, b)
	}
	return u, nil
}

func toHash(v interface{}) (common.Hash, error) {
	b, ok := v.([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %T is not bytes32", ErrInvalidArgument, v)
	}
	return common.Hash(b), nil
}
