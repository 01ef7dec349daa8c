// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsInterval = 10 * time.Second
	namespace       = "ledger_pebble"

	levelLabel = "level"
	levelZero  = "l0"
	levelOther = "l1+"
)

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager

	getLatency metric.Averager
	writes     prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	diskSpaceUsage prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	writeStall, err := metric.NewAverager(
		namespace+"_write_stall",
		"time spent waiting for disk write",
		r,
	)
	if err != nil {
		return nil, err
	}
	getLatency, err := metric.NewAverager(
		namespace+"_read_latency",
		"time spent waiting for db get",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_written",
			Help:      "number of ledger words written",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started, by input level",
		}, []string{levelLabel}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		diskSpaceUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_space_usage",
			Help:      "bytes of disk used by the store",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.diskSpaceUsage),
	)
	return m, errs.Err
}

func (d *Database) onCompactionBegin(info pebble.CompactionInfo) {
	d.metrics.activeCompactions.Inc()
	level := levelOther
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = levelZero
	}
	d.metrics.compactions.WithLabelValues(level).Inc()
}

func (d *Database) onCompactionEnd(pebble.CompactionInfo) {
	d.metrics.activeCompactions.Dec()
}

func (d *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	d.metrics.delayStart = time.Now()
}

func (d *Database) onWriteStallEnd() {
	d.metrics.writeStall.Observe(float64(time.Since(d.metrics.delayStart)))
}

func (d *Database) collectMetrics() {
	defer d.collector.Done()

	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			d.metrics.diskSpaceUsage.Set(float64(d.db.Metrics().DiskSpaceUsage()))
		case <-d.closed:
			return
		}
	}
}
