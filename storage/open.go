// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/taskescrow/leveldb"
	"github.com/ava-labs/taskescrow/pebble"
	"github.com/ava-labs/taskescrow/state"
)

const (
	MemoryBackend  = "memory"
	PebbleBackend  = "pebble"
	LevelDBBackend = "leveldb"

	ledgerNamespace = "ledger"
)

// New opens the Ledger Store selected by [backend] under [dataDir].
func New(
	backend string,
	dataDir string,
	pebbleConfig pebble.Config,
	registerer prometheus.Registerer,
) (state.Database, error) {
	switch backend {
	case MemoryBackend:
		return state.NewMemoryDatabase(), nil
	case PebbleBackend:
		path, err := initSubDirectory(dataDir, ledgerNamespace)
		if err != nil {
			return nil, err
		}
		return pebble.New(path, pebbleConfig, registerer)
	case LevelDBBackend:
		path, err := initSubDirectory(dataDir, ledgerNamespace)
		if err != nil {
			return nil, err
		}
		return leveldb.New(path, pebbleConfig.Sync)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func initSubDirectory(rootPath string, name string) (string, error) {
	p := filepath.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}
