// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

const (
	ConstructID uint8 = iota
	GetTaskID
	GetDeadlineID
	GetCurrentRewardID
	SendAnswerID
	TransferRewardID
	DepositID
	BalanceOfID
	AnswerID
	StatusID
)
