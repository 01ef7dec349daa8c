// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/consts"
	"github.com/ava-labs/taskescrow/pebble"
	"github.com/ava-labs/taskescrow/pubsub"
	"github.com/ava-labs/taskescrow/server"
	"github.com/ava-labs/taskescrow/storage"
)

var (
	ErrCapacityTooSmall    = errors.New("answer capacity must be at least 2")
	ErrZeroContract        = errors.New("contract address must be set")
	ErrUnknownStoreBackend = errors.New("unknown store backend")
)

// DefaultContractAddress stands in for the address a host would assign the
// contract at deployment.
var DefaultContractAddress = common.HexToAddress("0x00000000000000000000000000000000007a5c00")

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`

	// Ledger
	StoreBackend string        `json:"storeBackend"`
	DataDir      string        `json:"dataDir"`
	Pebble       pebble.Config `json:"pebble"`

	// Contract
	ContractAddress common.Address `json:"contractAddress"`
	AnswerCapacity  uint64         `json:"answerCapacity"`

	// API
	HTTPAddress     string              `json:"httpAddress"`
	HTTP            server.HTTPConfig   `json:"http"`
	AllowedOrigins  []string            `json:"allowedOrigins"`
	AllowedHosts    []string            `json:"allowedHosts"`
	ShutdownTimeout time.Duration       `json:"shutdownTimeout"`
	WebSocket       pubsub.ServerConfig `json:"webSocket"`
}

func New(b []byte) (*Config, error) {
	c := &Config{
		LogLevel:        logging.Info,
		LogDisplayLevel: logging.Info,
		StoreBackend:    storage.MemoryBackend,
		DataDir:         ".taskescrow",
		Pebble:          pebble.NewDefaultConfig(),
		ContractAddress: DefaultContractAddress,
		AnswerCapacity:  consts.DefaultAnswerCapacity,
		HTTPAddress:     "127.0.0.1:9660",
		HTTP:            server.NewDefaultHTTPConfig(),
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: 10 * time.Second,
		WebSocket:       *pubsub.NewDefaultServerConfig(),
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Verify rejects configurations no component could run with.
func (c *Config) Verify() error {
	switch c.StoreBackend {
	case storage.MemoryBackend, storage.PebbleBackend, storage.LevelDBBackend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreBackend, c.StoreBackend)
	}
	// Slot 0 is never written, so a capacity of 1 stores nothing.
	if c.AnswerCapacity < 2 {
		return fmt.Errorf("%w: %d", ErrCapacityTooSmall, c.AnswerCapacity)
	}
	if c.ContractAddress == (common.Address{}) {
		return ErrZeroContract
	}
	return nil
}

func (c *Config) Rules() *chain.StaticRules {
	return &chain.StaticRules{
		ContractAddress: c.ContractAddress,
		AnswerCapacity:  c.AnswerCapacity,
	}
}
