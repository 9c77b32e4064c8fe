// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/govern"
	"github.com/blinklabs-io/govern/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

var ErrNoGenesis = errors.New("no genesis file configured")

// LoadGenesis reads the genesis file named in the config
func LoadGenesis(cfg *config.Config) (*govern.Genesis, error) {
	if cfg.GenesisFile == "" {
		return nil, ErrNoGenesis
	}
	return govern.LoadGenesis(cfg.GenesisFile)
}

func newDAO(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, apiAddr string) (*govern.DAO, error) {
	genesis, err := LoadGenesis(cfg)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return nil, err
	}
	blockInterval, err := cfg.BlockIntervalDuration()
	if err != nil {
		return nil, err
	}
	return govern.New(
		govern.NewConfig(
			govern.WithLogger(logger),
			govern.WithGenesis(genesis),
			govern.WithDatabasePath(cfg.DatabasePath),
			govern.WithMetadataBackend(cfg.MetadataBackend, cfg.MetadataDsn),
			govern.WithBlockInterval(blockInterval),
			govern.WithAPIListenAddress(apiAddr),
			govern.WithSubmitEnabled(cfg.SubmitEnabled),
			govern.WithShutdownTimeout(shutdownTimeout),
			govern.WithPrometheusRegistry(reg),
			govern.WithTracing(cfg.Tracing),
			govern.WithTracingStdout(cfg.TracingStdout),
		),
	)
}

// metricsHandler serves prometheus metrics and the pprof endpoints
func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Run serves the DAO until ctx is done or SIGINT/SIGTERM is received
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d, err := newDAO(cfg, logger, reg, cfg.ApiListenAddress())
	if err != nil {
		return err
	}
	shutdownTimeout, _ := cfg.ShutdownTimeoutDuration()

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		ctx,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		// The metrics listener follows the DAO down
		defer signalCtxStop()
		if err := d.Run(gctx); err != nil {
			return fmt.Errorf("DAO: %w", err)
		}
		return nil
	})
	if addr := cfg.MetricsListenAddress(); addr != "" {
		metricsServer := &http.Server{
			Addr:              addr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		logger.Info(
			"serving prometheus metrics on "+addr,
			"component", "node",
		)
		g.Go(func() error {
			if err := metricsServer.ListenAndServe(); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start metrics listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				shutdownTimeout,
			)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
			return nil
		})
	}

	<-gctx.Done()
	if signalCtx.Err() != nil {
		logger.Info("signal received, initiating graceful shutdown")
	}
	// Run returns once the DAO stops on gctx
	if err := g.Wait(); err != nil {
		logger.Error("shutdown errors occurred", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
