// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFilterInvalidHosts(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := map[string]struct {
		allowedHosts []string
		host         string
		expected     int
	}{
		"wildcard": {
			allowedHosts: []string{"*"},
			host:         "example.com",
			expected:     http.StatusOK,
		},
		"allowed": {
			allowedHosts: []string{"localhost"},
			host:         "LOCALHOST:9660",
			expected:     http.StatusOK,
		},
		"ip": {
			allowedHosts: []string{"localhost"},
			host:         "127.0.0.1:9660",
			expected:     http.StatusOK,
		},
		"rejected": {
			allowedHosts: []string{"localhost"},
			host:         "example.com",
			expected:     http.StatusForbidden,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			handler := filterInvalidHosts(ok, tt.allowedHosts)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			require.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestServerDispatch(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)

	registry := prometheus.NewRegistry()
	wrapper, err := NewRequestMetrics(registry)
	require.NoError(err)

	s := New(logging.NoLog{}, listener, NewDefaultHTTPConfig(), []string{"*"}, []string{"localhost"}, time.Second, wrapper)
	s.AddRoute(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}), "/ping")

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch()
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", listener.Addr()))
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("pong", string(body))
	require.Eventually(func() bool {
		return testutil.ToFloat64(wrapper.(*requestMetrics).requests.WithLabelValues(http.MethodGet)) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(s.Shutdown())
	require.ErrorIs(<-done, http.ErrServerClosed)
}
