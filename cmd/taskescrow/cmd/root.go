// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/config"
	"github.com/ava-labs/taskescrow/contract"
	"github.com/ava-labs/taskescrow/event"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/storage"
)

const (
	logMaxSize  = 8 // megabytes
	logMaxFiles = 7
)

type taskescrow struct {
	configPath string
	logLevel   string

	cfg        *config.Config
	logFactory *logFactory
	log        logging.Logger
}

func NewRootCmd() *cobra.Command {
	t := &taskescrow{}
	cmd := &cobra.Command{
		Use:   "taskescrow",
		Short: "Task bounty escrow ledger",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return t.Init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			t.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&t.configPath, "config", "", "path to a JSON config file")
	cmd.PersistentFlags().StringVar(&t.logLevel, "log-level", "", "overrides the configured log level")

	cmd.AddCommand(
		newServeCmd(t),
		newRunCmd(t),
		newInspectCmd(t),
	)
	return cmd
}

func (t *taskescrow) Init() error {
	var b []byte
	if t.configPath != "" {
		var err error
		b, err = os.ReadFile(t.configPath)
		if err != nil {
			return err
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return err
	}
	if t.logLevel != "" {
		level, err := logging.ToLevel(t.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
		cfg.LogDisplayLevel = level
	}
	t.cfg = cfg

	loggingConfig := logging.Config{
		LogLevel:     cfg.LogLevel,
		DisplayLevel: cfg.LogDisplayLevel,
		LogFormat:    logging.JSON,
	}
	loggingConfig.Directory = cfg.LogDir
	loggingConfig.MaxSize = logMaxSize
	loggingConfig.MaxFiles = logMaxFiles

	t.logFactory = newLogFactory(loggingConfig)
	t.log, err = t.logFactory.Make("taskescrow")
	if err != nil {
		t.logFactory.Close()
		return err
	}
	t.log.Debug("initialized",
		zap.String("storeBackend", cfg.StoreBackend),
		zap.Stringer("contract", cfg.ContractAddress),
		zap.Uint64("answerCapacity", cfg.AnswerCapacity),
	)
	return nil
}

func (t *taskescrow) Close() {
	if t.logFactory != nil {
		t.logFactory.Close()
	}
}

// ledger pairs a contract with the store it was opened on.
type ledger struct {
	db       state.Database
	contract *contract.Contract
}

func (t *taskescrow) openLedger(
	registerer prometheus.Registerer,
	subs ...event.Subscription[*chain.TransferEvent],
) (*ledger, error) {
	db, err := storage.New(t.cfg.StoreBackend, t.cfg.DataDir, t.cfg.Pebble, registerer)
	if err != nil {
		return nil, err
	}
	c, err := contract.New(t.log, db, t.cfg.Rules(), registerer, subs...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ledger{db: db, contract: c}, nil
}

func (l *ledger) Close() error {
	errs := wrappers.Errs{}
	errs.Add(
		l.contract.Close(),
		l.db.Close(),
	)
	return errs.Err
}
