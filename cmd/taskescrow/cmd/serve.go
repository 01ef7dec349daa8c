// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/taskescrow/rpc"
	"github.com/ava-labs/taskescrow/server"
)

const metricsEndpoint = "/metrics"

func newServeCmd(t *taskescrow) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the escrow over JSON-RPC and websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return t.serve(ctx)
		},
	}
}

func (t *taskescrow) serve(ctx context.Context) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}

	wsServer, pubsubServer := rpc.NewWebSocketServer(t.log, t.cfg.ContractAddress, &t.cfg.WebSocket)
	l, err := t.openLedger(registry, wsServer)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Close(); err != nil {
			t.log.Error("failed to close ledger", zap.Error(err))
		}
	}()

	jsonRPCHandler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(t.log, l.contract))
	if err != nil {
		return err
	}

	requestMetrics, err := server.NewRequestMetrics(registry)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", t.cfg.HTTPAddress)
	if err != nil {
		return err
	}
	srv := server.New(
		t.log,
		listener,
		t.cfg.HTTP,
		t.cfg.AllowedOrigins,
		t.cfg.AllowedHosts,
		t.cfg.ShutdownTimeout,
		requestMetrics,
	)
	srv.AddRoute(jsonRPCHandler, rpc.JSONRPCEndpoint)
	srv.AddRoute(pubsubServer, rpc.WebSocketEndpoint)
	srv.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metricsEndpoint)

	t.log.Info("serving",
		zap.Stringer("address", listener.Addr()),
		zap.String("storeBackend", t.cfg.StoreBackend),
		zap.Stringer("contract", t.cfg.ContractAddress),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		t.log.Info("shutting down")
		return srv.Shutdown()
	})
	return g.Wait()
}
