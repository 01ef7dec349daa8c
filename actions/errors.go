// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("already initialized")
	ErrNotInitialized      = errors.New("not initialized")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrCapacityExceeded    = errors.New("answer capacity exceeded")
	ErrValueZero           = errors.New("value is zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("self transfer")
	ErrNilValue            = errors.New("nil value")
)
