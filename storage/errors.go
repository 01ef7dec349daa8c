// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidBalance = errors.New("invalid balance")
	ErrInvalidWord    = errors.New("invalid word")
	ErrUnknownBackend = errors.New("unknown storage backend")
)
