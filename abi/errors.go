// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package abi

import "errors"

var (
	ErrUnknownMethod   = errors.New("unknown method")
	ErrInputTooShort   = errors.New("input too short")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnexpectedType  = errors.New("unexpected result type")
)
