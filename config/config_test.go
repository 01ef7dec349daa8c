// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/taskescrow/consts"
	"github.com/ava-labs/taskescrow/storage"
)

func TestNewDefaults(t *testing.T) {
	require := require.New(t)

	c, err := New(nil)
	require.NoError(err)
	require.Equal(logging.Info, c.LogLevel)
	require.Equal(storage.MemoryBackend, c.StoreBackend)
	require.Equal(DefaultContractAddress, c.Rules().GetContractAddress())
	require.Equal(consts.DefaultAnswerCapacity, c.Rules().GetAnswerCapacity())
	require.Equal(1024, c.WebSocket.MaxPendingMessages)
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		input       string
		expectedErr error
		check       func(*require.Assertions, *Config)
	}{
		"overrides": {
			input: `{
				"logLevel": "debug",
				"storeBackend": "pebble",
				"dataDir": "/tmp/escrow",
				"contractAddress": "0x00000000000000000000000000000000000000c0",
				"answerCapacity": 10,
				"pebble": {"sync": true}
			}`,
			check: func(require *require.Assertions, c *Config) {
				require.Equal(logging.Debug, c.LogLevel)
				require.Equal(storage.PebbleBackend, c.StoreBackend)
				require.Equal("/tmp/escrow", c.DataDir)
				require.Equal(common.HexToAddress("0xc0"), c.ContractAddress)
				require.Equal(uint64(10), c.AnswerCapacity)
				require.True(c.Pebble.Sync)
				// Unset fields keep their defaults.
				require.Equal("127.0.0.1:9660", c.HTTPAddress)
			},
		},
		"unknown backend": {
			input:       `{"storeBackend": "rocksdb"}`,
			expectedErr: ErrUnknownStoreBackend,
		},
		"capacity too small": {
			input:       `{"answerCapacity": 1}`,
			expectedErr: ErrCapacityTooSmall,
		},
		"zero contract": {
			input:       `{"contractAddress": "0x0000000000000000000000000000000000000000"}`,
			expectedErr: ErrZeroContract,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			c, err := New([]byte(tt.input))
			require.ErrorIs(err, tt.expectedErr)
			if tt.check != nil {
				tt.check(require, c)
			}
		})
	}
}
