// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/taskescrow/consts"
	"github.com/ava-labs/taskescrow/state"
)

// State
// 0x0/ (contract metadata)
//   -> [field] => word
// 0x1/ (balance)
//   -> [owner] => balance
// 0x2/ (answer log)
//   -> [index] => answer
//
// Every key and value is a single 32 byte word.

const (
	metadataPrefix byte = 0x0
	balancePrefix  byte = 0x1
	answerPrefix   byte = 0x2
)

// Each metadata field lives at its own key.
const (
	initializedField byte = iota + 1
	totalSupplyField
	ownerField
	taskField
	minExecutorsField
	maxExecutorsField
	currentExecutorsField
	answersSubmittedField
	deadlineField
)

// Keys are built once at startup and never mutated.
var (
	initializedKey      = metadataKey(initializedField)
	totalSupplyKey      = metadataKey(totalSupplyField)
	ownerKey            = metadataKey(ownerField)
	taskKey             = metadataKey(taskField)
	minExecutorsKey     = metadataKey(minExecutorsField)
	maxExecutorsKey     = metadataKey(maxExecutorsField)
	currentExecutorsKey = metadataKey(currentExecutorsField)
	answersSubmittedKey = metadataKey(answersSubmittedField)
	deadlineKey         = metadataKey(deadlineField)
)

func metadataKey(field byte) []byte {
	k := make([]byte, consts.WordLen)
	k[0] = metadataPrefix
	k[consts.WordLen-1] = field
	return k
}

// [balancePrefix] + padding + [address]
func BalanceKey(addr common.Address) []byte {
	k := make([]byte, consts.WordLen)
	k[0] = balancePrefix
	copy(k[consts.WordLen-consts.AddressLen:], addr[:])
	return k
}

// [answerPrefix] + padding + [index]
func AnswerKey(index uint64) []byte {
	k := make([]byte, consts.WordLen)
	k[0] = answerPrefix
	binary.BigEndian.PutUint64(k[consts.WordLen-consts.Uint64Len:], index)
	return k
}

// getWord reads the word at [key]. Keys that were never written read as the
// zero word.
func getWord(ctx context.Context, im state.Immutable, key []byte) (common.Hash, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return common.Hash{}, nil
	}
	if err != nil {
		return common.Hash{}, err
	}
	if len(v) != consts.WordLen {
		return common.Hash{}, ErrInvalidWord
	}
	return common.BytesToHash(v), nil
}

func setWord(ctx context.Context, mu state.Mutable, key []byte, w common.Hash) error {
	return mu.Insert(ctx, key, w.Bytes())
}

func getUint(ctx context.Context, im state.Immutable, key []byte) (*uint256.Int, error) {
	w, err := getWord(ctx, im, key)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(w[:]), nil
}

func setUint(ctx context.Context, mu state.Mutable, key []byte, v *uint256.Int) error {
	return setWord(ctx, mu, key, v.Bytes32())
}

// UintToHash encodes [v] as a big-endian word.
func UintToHash(v *uint256.Int) common.Hash {
	return v.Bytes32()
}

// HashToUint decodes a big-endian word.
func HashToUint(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes32(h[:])
}
