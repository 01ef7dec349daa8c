// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/database.go -mock_names=Database=Database . Database

import "context"

// Immutable is a read-only view of the ledger.
//
// GetValue returns database.ErrNotFound if [key] has never been written.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

// Mutable is the surface actions execute against. The ledger has no delete
// primitive: once written, a key only ever changes value.
type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
}

// Database is a persistent Ledger Store.
//
// Apply must write every pair in [changes] or none of them.
type Database interface {
	Immutable

	Apply(ctx context.Context, changes []KeyValue) error
	Close() error
}

type KeyValue struct {
	Key   []byte
	Value []byte
}
