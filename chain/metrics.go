// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type processorMetrics struct {
	callsExecuted prometheus.Counter
	callsReverted prometheus.Counter
	commitFailed  prometheus.Counter

	stateChanges    prometheus.Counter
	stateOperations prometheus.Counter
	transfers       prometheus.Counter

	executeLatency metric.Averager
	commitLatency  metric.Averager
}

func newMetrics(r prometheus.Registerer) (*processorMetrics, error) {
	executeLatency, err := metric.NewAverager(
		"processor_execute",
		"time spent executing a call",
		r,
	)
	if err != nil {
		return nil, err
	}
	commitLatency, err := metric.NewAverager(
		"processor_commit",
		"time spent applying a call's changes to the ledger",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &processorMetrics{
		callsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "calls_executed",
			Help:      "number of calls committed",
		}),
		callsReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "calls_reverted",
			Help:      "number of calls reverted by an error",
		}),
		commitFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "commit_failed",
			Help:      "number of calls whose changes could not be applied",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "state_changes",
			Help:      "number of keys changed",
		}),
		stateOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "state_operations",
			Help:      "number of writes performed",
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "processor",
			Name:      "transfers",
			Help:      "number of transfer events delivered",
		}),
		executeLatency: executeLatency,
		commitLatency:  commitLatency,
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.callsExecuted),
		r.Register(m.callsReverted),
		r.Register(m.commitFailed),
		r.Register(m.stateChanges),
		r.Register(m.stateOperations),
		r.Register(m.transfers),
	)
	return m, errs.Err
}
