// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/actions"
	"github.com/ava-labs/taskescrow/chain"
	"github.com/ava-labs/taskescrow/contract"
	"github.com/ava-labs/taskescrow/event"
)

type runCmd struct {
	log      logging.Logger
	plan     *Plan
	registry *actions.Registry
	out      io.Writer
}

func newRunCmd(t *taskescrow) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path|-]",
		Short: "Run a YAML or JSON plan of calls against the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &runCmd{
				log:      t.log,
				registry: actions.NewDefaultRegistry(),
				out:      cmd.OutOrStdout(),
			}
			if err := r.Init(args[0], cmd.InOrStdin()); err != nil {
				return err
			}
			if err := r.Verify(); err != nil {
				return err
			}

			recorder := &event.Recorder[*chain.TransferEvent]{}
			l, err := t.openLedger(prometheus.NewRegistry(), recorder)
			if err != nil {
				return err
			}
			runErr := r.Run(cmd.Context(), l.contract, recorder)
			if err := l.Close(); err != nil && runErr == nil {
				return err
			}
			return runErr
		},
	}
}

// Init reads the plan from [source], or from [stdin] when [source] is "-".
func (r *runCmd) Init(source string, stdin io.Reader) (err error) {
	var planBytes []byte
	if source == "-" {
		planBytes, err = io.ReadAll(stdin)
	} else {
		planBytes, err = os.ReadFile(source)
	}
	if err != nil {
		return err
	}
	r.plan, err = unmarshalPlan(planBytes)
	return err
}

func (r *runCmd) Verify() error {
	if len(r.plan.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for name, addr := range r.plan.Accounts {
		if _, err := r.plan.resolveAddress(addr); err != nil {
			return fmt.Errorf("%w: account %q: %w", ErrInvalidPlan, name, err)
		}
	}
	for i, step := range r.plan.Steps {
		if _, ok := r.registry.LookupName(step.Method); !ok {
			return fmt.Errorf("%w %d: %w: %q", ErrInvalidStep, i, actions.ErrUnknownAction, step.Method)
		}
		if _, err := r.plan.resolveAddress(step.Caller); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
		if step.Require != nil && step.Require.Result != nil && !Operator(step.Require.Result.Operator).valid() {
			return fmt.Errorf("%w %d: %w: %q", ErrInvalidStep, i, ErrInvalidOperator, step.Require.Result.Operator)
		}
	}
	return nil
}

// Run executes every step in order, printing one response per step. It stops
// at the first step whose requirements are not met.
func (r *runCmd) Run(ctx context.Context, c *contract.Contract, recorder *event.Recorder[*chain.TransferEvent]) error {
	r.log.Info("running plan",
		zap.String("name", r.plan.Name),
		zap.String("description", r.plan.Description),
		zap.Int("steps", len(r.plan.Steps)),
	)

	seen := len(recorder.Events())
	for i, step := range r.plan.Steps {
		r.log.Debug("step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("method", step.Method),
			zap.String("caller", step.Caller),
		)

		resp := NewResponse(i, step.Method)
		result, stepErr := r.runStep(ctx, c, &step)
		if stepErr != nil {
			resp.Error = stepErr.Error()
		} else {
			resp.Result = result
		}
		transfers := recorder.Events()
		resp.Transfers = transfers[seen:]
		seen = len(transfers)

		if err := resp.Print(r.out); err != nil {
			return err
		}
		if err := step.Require.verify(result, stepErr); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (r *runCmd) runStep(ctx context.Context, c *contract.Contract, step *Step) (json.RawMessage, error) {
	caller, err := r.plan.resolveAddress(step.Caller)
	if err != nil {
		return nil, err
	}
	params, err := r.plan.encodeParams(step.Params)
	if err != nil {
		return nil, err
	}
	action, err := r.registry.Decode(step.Method, params)
	if err != nil {
		return nil, err
	}
	result, err := c.Execute(ctx, caller, action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}
