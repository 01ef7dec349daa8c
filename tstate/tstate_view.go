// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"

	"github.com/ava-labs/taskescrow/consts"
	"github.com/ava-labs/taskescrow/state"
)

var _ state.Mutable = (*TStateView)(nil)

// TStateView buffers every write made during a single external call. Nothing
// reaches the underlying ledger until the owner of the view reads
// [Changes] and applies them.
type TStateView struct {
	base state.Immutable

	pendingChangedKeys map[string][]byte
	// order of first write, so changes are applied deterministically
	keys []string

	// ops counts every successful Insert, including overwrites.
	ops int

	closed bool
}

func NewView(base state.Immutable) *TStateView {
	return &TStateView{
		base:               base,
		pendingChangedKeys: make(map[string][]byte),
	}
}

// GetValue returns the pending value for [key] if one was written during
// this view, otherwise it falls through to the base ledger.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if ts.closed {
		return nil, ErrViewClosed
	}
	if v, ok := ts.pendingChangedKeys[string(key)]; ok {
		return v, nil
	}
	return ts.base.GetValue(ctx, key)
}

// Insert records [value] for [key]. Keys and values must both be exactly one
// ledger word wide.
//
// Any bytes passed into [Insert] are consumed by the view and should not be
// modified after this call.
func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	if ts.closed {
		return ErrViewClosed
	}
	if len(key) != consts.WordLen || len(value) != consts.WordLen {
		return ErrInvalidKeyValue
	}
	k := string(key)
	if _, ok := ts.pendingChangedKeys[k]; !ok {
		ts.keys = append(ts.keys, k)
	}
	ts.pendingChangedKeys[k] = value
	ts.ops++
	return nil
}

// PendingChanges returns the number of distinct keys written.
func (ts *TStateView) PendingChanges() int {
	return len(ts.keys)
}

// OpIndex returns the number of writes performed on the view.
func (ts *TStateView) OpIndex() int {
	return ts.ops
}

// Changes returns the final value of every written key in first-write order
// and closes the view.
func (ts *TStateView) Changes() []state.KeyValue {
	changes := make([]state.KeyValue, 0, len(ts.keys))
	for _, k := range ts.keys {
		changes = append(changes, state.KeyValue{
			Key:   []byte(k),
			Value: ts.pendingChangedKeys[k],
		})
	}
	ts.closed = true
	return changes
}

// Discard drops every pending write.
func (ts *TStateView) Discard() {
	ts.pendingChangedKeys = nil
	ts.keys = nil
	ts.closed = true
}
