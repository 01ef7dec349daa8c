// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/contract"
)

type inspectOutput struct {
	Status   *actions.StatusResult           `json:"status"`
	Balances map[common.Address]*uint256.Int `json:"balances,omitempty"`
}

func newInspectCmd(t *taskescrow) *cobra.Command {
	var addresses []string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the task status and account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := t.openLedger(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			inspectErr := inspect(cmd.Context(), cmd.OutOrStdout(), l.contract, addresses)
			if err := l.Close(); err != nil && inspectErr == nil {
				return err
			}
			return inspectErr
		},
	}
	cmd.Flags().StringSliceVar(&addresses, "address", nil, "accounts to report balances for")
	return cmd
}

func inspect(ctx context.Context, w io.Writer, c *contract.Contract, addresses []string) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	out := &inspectOutput{Status: status}
	// Balances only exist once the ledger is constructed.
	if !status.Initialized {
		addresses = nil
	}
	if len(addresses) > 0 {
		out.Balances = make(map[common.Address]*uint256.Int, len(addresses))
	}
	for _, s := range addresses {
		if !common.IsHexAddress(s) {
			return fmt.Errorf("%w: %q", ErrInvalidCaller, s)
		}
		addr := common.HexToAddress(s)
		balance, err := c.BalanceOf(ctx, addr)
		if err != nil {
			return err
		}
		out.Balances[addr] = balance
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
