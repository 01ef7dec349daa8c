// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/taskescrow/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	Sync         bool `json:"sync"`
	BytesPerSync int  `json:"bytesPerSync"`
	MaxOpenFiles int  `json:"maxOpenFiles"`
}

func NewDefaultConfig() Config {
	return Config{
		Sync:         true,
		BytesPerSync: 512 * units.KiB,
		MaxOpenFiles: 4_096,
	}
}

// Database is a Ledger Store backed by Pebble.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOptions *pebble.WriteOptions

	closeOnce sync.Once
	closed    chan struct{}
	collector sync.WaitGroup
}

// New opens (or creates) a Pebble store in [dir] and registers its metrics
// on [registerer].
func New(dir string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	d := &Database{
		metrics:      m,
		writeOptions: &pebble.WriteOptions{Sync: cfg.Sync},
		closed:       make(chan struct{}),
	}
	opts := &pebble.Options{
		BytesPerSync: cfg.BytesPerSync,
		MaxOpenFiles: cfg.MaxOpenFiles,
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	d.db = db
	d.collector.Add(1)
	go d.collectMetrics()
	return d, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	v, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value, closer.Close()
}

func (d *Database) Apply(_ context.Context, changes []state.KeyValue) error {
	batch := d.db.NewBatch()
	defer batch.Close()

	for _, kv := range changes {
		if err := batch.Set(kv.Key, kv.Value, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(d.writeOptions); err != nil {
		return err
	}
	d.metrics.writes.Add(float64(len(changes)))
	return nil
}

func (d *Database) Close() error {
	d.closeOnce.Do(func() {
		close(d.closed)
	})
	d.collector.Wait()
	return d.db.Close()
}
