// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/taskescrow/event"
	"github.com/ava-labs/taskescrow/state"
	"github.com/ava-labs/taskescrow/tstate"
)

// Processor is the single writer for a ledger. Every call runs against a
// fresh view and is either applied as one batch or discarded.
type Processor struct {
	log     logging.Logger
	rules   Rules
	db      state.Database
	subs    []event.Subscription[*TransferEvent]
	metrics *processorMetrics

	lock   sync.Mutex
	closed bool
}

func NewProcessor(
	log logging.Logger,
	rules Rules,
	db state.Database,
	registerer prometheus.Registerer,
	subs ...event.Subscription[*TransferEvent],
) (*Processor, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Processor{
		log:     log,
		rules:   rules,
		db:      db,
		subs:    subs,
		metrics: m,
	}, nil
}

func (p *Processor) Rules() Rules {
	return p.rules
}

// Execute runs [action] as [actor]. Events raised by the action are
// delivered only after its writes reach the ledger.
func (p *Processor) Execute(ctx context.Context, actor common.Address, action Action) (Typed, error) {
	if action == nil {
		return nil, ErrNilAction
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return nil, ErrProcessorClosed
	}

	start := time.Now()
	view := tstate.NewView(p.db)
	events := &EventLog{}
	result, err := action.Execute(ctx, p.rules, view, actor, events)
	p.metrics.executeLatency.Observe(float64(time.Since(start)))
	if err != nil {
		view.Discard()
		p.metrics.callsReverted.Inc()
		p.log.Debug("call reverted",
			zap.Uint8("action", action.GetTypeID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}
	if action.ReadOnly() && view.PendingChanges() > 0 {
		view.Discard()
		return nil, fmt.Errorf("%w: action=%d", ErrReadOnlyWrite, action.GetTypeID())
	}

	ops := view.OpIndex()
	changes := view.Changes()
	if len(changes) > 0 {
		commitStart := time.Now()
		if err := p.db.Apply(ctx, changes); err != nil {
			p.metrics.commitFailed.Inc()
			p.log.Error("unable to apply changes",
				zap.Uint8("action", action.GetTypeID()),
				zap.Int("changes", len(changes)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
		}
		p.metrics.commitLatency.Observe(float64(time.Since(commitStart)))
	}
	p.metrics.callsExecuted.Inc()
	p.metrics.stateChanges.Add(float64(len(changes)))
	p.metrics.stateOperations.Add(float64(ops))

	// State is already committed, so subscriber failures are only logged.
	for _, transfer := range events.Transfers() {
		p.metrics.transfers.Inc()
		if err := event.NotifyAll(ctx, transfer, p.subs...); err != nil {
			p.log.Warn("unable to deliver transfer event",
				zap.Stringer("from", transfer.From),
				zap.Stringer("to", transfer.To),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

// Close stops accepting calls and closes every subscription. It does not
// close the ledger.
func (p *Processor) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return event.CloseAll(p.subs...)
}
