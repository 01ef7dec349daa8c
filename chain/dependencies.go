// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/state"
)

// Rules carries the parameters the host would otherwise supply.
type Rules interface {
	// GetContractAddress is the address whose balance backs the reward pool.
	GetContractAddress() common.Address
	// GetAnswerCapacity bounds the answer log. Index 0 is never written.
	GetAnswerCapacity() uint64
}

// Typed is implemented by actions and their results.
type Typed interface {
	GetTypeID() uint8
}

// Emitter receives events raised while an action executes. Events are only
// delivered to subscribers once the action's writes are committed.
type Emitter interface {
	EmitTransfer(from common.Address, to common.Address, value *uint256.Int)
}

type Action interface {
	Typed

	// ReadOnly actions never write to [mu].
	ReadOnly() bool

	// Execute runs the action on behalf of [actor].
	//
	// Returning an error reverts every write the action made. A non-nil
	// result is committed, even if it reports a failed operation.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		actor common.Address,
		emitter Emitter,
	) (Typed, error)
}
