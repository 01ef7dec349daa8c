// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrNilAction       = errors.New("nil action")
	ErrCommitFailed    = errors.New("commit failed")
	ErrReadOnlyWrite   = errors.New("read-only action wrote state")
	ErrProcessorClosed = errors.New("processor closed")
)
