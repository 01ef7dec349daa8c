// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/requester"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Construct(
	ctx context.Context,
	caller common.Address,
	totalSupply *uint256.Int,
	task common.Hash,
	minExecutors common.Hash,
	maxExecutors common.Hash,
	blocksBeforeDeadline common.Hash,
) error {
	resp := new(SuccessReply)
	return cli.requester.SendRequest(
		ctx,
		"construct",
		&ConstructArgs{
			Caller:               caller,
			TotalSupply:          totalSupply,
			Task:                 task,
			MinExecutors:         minExecutors,
			MaxExecutors:         maxExecutors,
			BlocksBeforeDeadline: blocksBeforeDeadline,
		},
		resp,
	)
}

func (cli *JSONRPCClient) GetTask(ctx context.Context, caller common.Address) (common.Hash, error) {
	resp := new(TaskReply)
	err := cli.requester.SendRequest(
		ctx,
		"getTask",
		&CallerArgs{Caller: caller},
		resp,
	)
	return resp.Task, err
}

func (cli *JSONRPCClient) Deadline(ctx context.Context) (common.Hash, error) {
	resp := new(DeadlineReply)
	err := cli.requester.SendRequest(
		ctx,
		"deadline",
		nil,
		resp,
	)
	return resp.Blocks, err
}

func (cli *JSONRPCClient) CurrentReward(ctx context.Context) (*uint256.Int, error) {
	resp := new(RewardReply)
	err := cli.requester.SendRequest(
		ctx,
		"currentReward",
		nil,
		resp,
	)
	return resp.Reward, err
}

func (cli *JSONRPCClient) SendAnswer(ctx context.Context, caller common.Address, answer *uint256.Int) (bool, error) {
	resp := new(SuccessReply)
	err := cli.requester.SendRequest(
		ctx,
		"sendAnswer",
		&SendAnswerArgs{
			Caller: caller,
			Answer: answer,
		},
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) TransferReward(
	ctx context.Context,
	caller common.Address,
	to common.Address,
	amount *uint256.Int,
) (bool, error) {
	resp := new(SuccessReply)
	err := cli.requester.SendRequest(
		ctx,
		"transferReward",
		&TransferRewardArgs{
			Caller: caller,
			To:     to,
			Amount: amount,
		},
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Deposit(ctx context.Context, caller common.Address, amount *uint256.Int) error {
	resp := new(SuccessReply)
	return cli.requester.SendRequest(
		ctx,
		"deposit",
		&DepositArgs{
			Caller: caller,
			Amount: amount,
		},
		resp,
	)
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr common.Address) (*uint256.Int, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Address: addr},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Answer(ctx context.Context, index uint64) (*uint256.Int, error) {
	resp := new(AnswerReply)
	err := cli.requester.SendRequest(
		ctx,
		"answer",
		&AnswerArgs{Index: index},
		resp,
	)
	return resp.Answer, err
}

func (cli *JSONRPCClient) Status(ctx context.Context) (*actions.StatusResult, error) {
	resp := new(actions.StatusResult)
	err := cli.requester.SendRequest(
		ctx,
		"status",
		nil,
		resp,
	)
	return resp, err
}

// Call sends ABI encoded call data and returns the ABI encoded output.
func (cli *JSONRPCClient) Call(ctx context.Context, caller common.Address, data []byte) ([]byte, error) {
	resp := new(CallReply)
	err := cli.requester.SendRequest(
		ctx,
		"call",
		&CallArgs{
			Caller: caller,
			Data:   data,
		},
		resp,
	)
	return resp.Output, err
}
