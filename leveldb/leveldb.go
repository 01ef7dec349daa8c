// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/ava-labs/taskescrow/state"
)

var _ state.Database = (*Database)(nil)

// Database is a Ledger Store backed by LevelDB. LevelDB handles its own
// synchronization.
type Database struct {
	db   *leveldb.DB
	sync bool
}

// New opens or creates a LevelDB store at [path]. An empty path keeps the
// store in memory.
func New(path string, sync bool) (*Database, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return &Database{db: db, sync: sync}, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %x: %w", key, err)
	}
	return v, nil
}

func (d *Database) Apply(_ context.Context, changes []state.KeyValue) error {
	batch := new(leveldb.Batch)
	for _, kv := range changes {
		batch.Put(kv.Key, kv.Value)
	}
	return d.db.Write(batch, &opt.WriteOptions{Sync: d.sync})
}

func (d *Database) Close() error {
	return d.db.Close()
}
