// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrInvalidKeyValue = errors.New("invalid key or value")
	ErrViewClosed      = errors.New("view closed")
)
