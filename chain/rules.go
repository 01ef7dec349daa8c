// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/taskescrow/consts"
)

var _ Rules = (*StaticRules)(nil)

type StaticRules struct {
	ContractAddress common.Address `json:"contractAddress"`
	AnswerCapacity  uint64         `json:"answerCapacity"`
}

func NewDefaultRules(contract common.Address) *StaticRules {
	return &StaticRules{
		ContractAddress: contract,
		AnswerCapacity:  consts.DefaultAnswerCapacity,
	}
}

func (r *StaticRules) GetContractAddress() common.Address {
	return r.ContractAddress
}

func (r *StaticRules) GetAnswerCapacity() uint64 {
	return r.AnswerCapacity
}
