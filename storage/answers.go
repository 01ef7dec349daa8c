// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/state"
)

func GetAnswersSubmitted(ctx context.Context, im state.Immutable) (*uint256.Int, error) {
	return getUint(ctx, im, answersSubmittedKey)
}

// IncrementAnswersSubmitted bumps the answer counter by one and returns the
// new count, which is also the index the next answer is written at.
func IncrementAnswersSubmitted(ctx context.Context, mu state.Mutable) (*uint256.Int, error) {
	return increment(ctx, mu, answersSubmittedKey)
}

// SetAnswer writes [answer] at slot [index]. Callers enforce capacity.
func SetAnswer(ctx context.Context, mu state.Mutable, index uint64, answer *uint256.Int) error {
	return setUint(ctx, mu, AnswerKey(index), answer)
}

// GetAnswer reads slot [index]. Unwritten slots read as zero.
func GetAnswer(ctx context.Context, im state.Immutable, index uint64) (*uint256.Int, error) {
	return getUint(ctx, im, AnswerKey(index))
}
