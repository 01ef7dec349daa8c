// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
)

var _ Database = (*AvaDatabase)(nil)

// AvaDatabase adapts any avalanchego [database.Database] into a Ledger Store.
type AvaDatabase struct {
	db database.Database
}

func NewAvaDatabase(db database.Database) *AvaDatabase {
	return &AvaDatabase{db: db}
}

// NewMemoryDatabase returns a Ledger Store that lives only as long as the
// process.
func NewMemoryDatabase() *AvaDatabase {
	return NewAvaDatabase(memdb.New())
}

func (a *AvaDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return a.db.Get(key)
}

func (a *AvaDatabase) Apply(_ context.Context, changes []KeyValue) error {
	batch := a.db.NewBatch()
	for _, kv := range changes {
		if err := batch.Put(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (a *AvaDatabase) Close() error {
	return a.db.Close()
}
