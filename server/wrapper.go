// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Wrapper decorates the handler every request passes through.
type Wrapper interface {
	WrapHandler(h http.Handler) http.Handler
}

type requestMetrics struct {
	requests *prometheus.CounterVec
	latency  metric.Averager
}

// NewRequestMetrics counts requests by HTTP method and tracks how long they
// take to serve.
func NewRequestMetrics(r prometheus.Registerer) (Wrapper, error) {
	latency, err := metric.NewAverager(
		"api_request_latency",
		"time spent serving api requests",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &requestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "api",
			Name:      "requests",
			Help:      "number of api requests served",
		}, []string{"method"}),
		latency: latency,
	}
	errs := wrappers.Errs{}
	errs.Add(r.Register(m.requests))
	return m, errs.Err
}

func (m *requestMetrics) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		m.requests.WithLabelValues(r.Method).Inc()
		m.latency.Observe(float64(time.Since(start)))
	})
}
