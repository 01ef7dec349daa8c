// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/abi"
	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/contract"
)

// JSONRPCServer is a development host: callers name themselves in every
// request instead of signing it.
type JSONRPCServer struct {
	log      logging.Logger
	contract *contract.Contract
	endpoint *abi.Endpoint
}

func NewJSONRPCServer(log logging.Logger, c *contract.Contract) *JSONRPCServer {
	return &JSONRPCServer{
		log:      log,
		contract: c,
		endpoint: abi.New(c),
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type ConstructArgs struct {
	Caller               common.Address `json:"caller"`
	TotalSupply          *uint256.Int   `json:"totalSupply"`
	Task                 common.Hash    `json:"task"`
	MinExecutors         common.Hash    `json:"minExecutors"`
	MaxExecutors         common.Hash    `json:"maxExecutors"`
	BlocksBeforeDeadline common.Hash    `json:"blocksBeforeDeadline"`
}

func (j *JSONRPCServer) Construct(req *http.Request, args *ConstructArgs, reply *SuccessReply) error {
	if err := j.contract.Construct(
		req.Context(),
		args.Caller,
		args.TotalSupply,
		args.Task,
		args.MinExecutors,
		args.MaxExecutors,
		args.BlocksBeforeDeadline,
	); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type CallerArgs struct {
	Caller common.Address `json:"caller"`
}

type TaskReply struct {
	Task common.Hash `json:"task"`
}

func (j *JSONRPCServer) GetTask(req *http.Request, args *CallerArgs, reply *TaskReply) error {
	task, err := j.contract.GetTask(req.Context(), args.Caller)
	if err != nil {
		return err
	}
	reply.Task = task
	return nil
}

type DeadlineReply struct {
	Blocks common.Hash `json:"blocks"`
}

func (j *JSONRPCServer) Deadline(req *http.Request, _ *struct{}, reply *DeadlineReply) error {
	blocks, err := j.contract.GetNumberOfBlocksBeforeDeadline(req.Context())
	if err != nil {
		return err
	}
	reply.Blocks = blocks
	return nil
}

type RewardReply struct {
	Reward *uint256.Int `json:"reward"`
}

func (j *JSONRPCServer) CurrentReward(req *http.Request, _ *struct{}, reply *RewardReply) error {
	reward, err := j.contract.GetCurrentReward(req.Context())
	if err != nil {
		return err
	}
	reply.Reward = reward
	return nil
}

type SendAnswerArgs struct {
	Caller common.Address `json:"caller"`
	Answer *uint256.Int   `json:"answer"`
}

type SuccessReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) SendAnswer(req *http.Request, args *SendAnswerArgs, reply *SuccessReply) error {
	ok, err := j.contract.SendAnswer(req.Context(), args.Caller, args.Answer)
	if err != nil {
		return err
	}
	reply.Success = ok
	return nil
}

type TransferRewardArgs struct {
	Caller common.Address `json:"caller"`
	To     common.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

func (j *JSONRPCServer) TransferReward(req *http.Request, args *TransferRewardArgs, reply *SuccessReply) error {
	ok, err := j.contract.TransferReward(req.Context(), args.Caller, args.To, args.Amount)
	if err != nil {
		return err
	}
	reply.Success = ok
	return nil
}

type DepositArgs struct {
	Caller common.Address `json:"caller"`
	Amount *uint256.Int   `json:"amount"`
}

func (j *JSONRPCServer) Deposit(req *http.Request, args *DepositArgs, reply *SuccessReply) error {
	if err := j.contract.Deposit(req.Context(), args.Caller, args.Amount); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type BalanceArgs struct {
	Address common.Address `json:"address"`
}

type BalanceReply struct {
	Balance *uint256.Int `json:"balance"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	bal, err := j.contract.BalanceOf(req.Context(), args.Address)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type AnswerArgs struct {
	Index uint64 `json:"index"`
}

type AnswerReply struct {
	Answer *uint256.Int `json:"answer"`
}

func (j *JSONRPCServer) Answer(req *http.Request, args *AnswerArgs, reply *AnswerReply) error {
	answer, err := j.contract.Answer(req.Context(), args.Index)
	if err != nil {
		return err
	}
	reply.Answer = answer
	return nil
}

func (j *JSONRPCServer) Status(req *http.Request, _ *struct{}, reply *actions.StatusResult) error {
	status, err := j.contract.Status(req.Context())
	if err != nil {
		return err
	}
	*reply = *status
	return nil
}

type CallArgs struct {
	Caller common.Address `json:"caller"`
	Data   hexutil.Bytes  `json:"data"`
}

type CallReply struct {
	Output hexutil.Bytes `json:"output"`
}

// Call dispatches ABI encoded call data, selector included.
func (j *JSONRPCServer) Call(req *http.Request, args *CallArgs, reply *CallReply) error {
	output, err := j.endpoint.Dispatch(req.Context(), args.Caller, args.Data)
	if err != nil {
		j.log.Debug("call failed",
			zap.Stringer("caller", args.Caller),
			zap.Error(err),
		)
		return err
	}
	reply.Output = output
	return nil
}
