// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// WordLen is the width of every key and value in the ledger.
	WordLen    = 32
	AddressLen = 20
	ByteLen    = 1
	Uint64Len  = 8
	MaxUint64  = ^uint64(0)

	// DefaultAnswerCapacity matches the number of answer slots a freshly
	// deployed contract reserves.
	DefaultAnswerCapacity uint64 = 500

	Name = "taskescrow"
)
