// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidCaller       = errors.New("invalid caller")
	ErrInvalidOperator     = errors.New("invalid operator")
	ErrMissingField        = errors.New("missing result field")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrUnexpectedError     = errors.New("unexpected step error")
)
