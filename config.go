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

package govern

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/govern/chain"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	genesis          *Genesis
	clock            chain.Clock
	dataDir          string
	metadataBackend  string
	metadataDSN      string
	apiListenAddress string
	blockInterval    time.Duration
	shutdownTimeout  time.Duration
	submitEnabled    bool
	tracing          bool
	tracingStdout    bool
}

func (c *Config) validate() error {
	if c.genesis == nil {
		return errors.New("no genesis configured")
	}
	if err := c.genesis.Validate(); err != nil {
		return err
	}
	if c.blockInterval < 0 {
		return errors.New("block interval must not be negative")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the DAO config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new DAO config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
		blockInterval: chain.DefaultBlockTime,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithGenesis specifies the initial contract deployment
func WithGenesis(genesis *Genesis) ConfigOptionFunc {
	return func(c *Config) {
		c.genesis = genesis
	}
}

// WithClock replaces the wall clock derived from the genesis timestamp and
// block interval. Mostly useful for tests.
func WithClock(clock chain.Clock) ConfigOptionFunc {
	return func(c *Config) {
		c.clock = clock
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithMetadataBackend stores the event projections in the named backend
// (sqlite, postgres or mysql). The DSN is ignored for sqlite.
func WithMetadataBackend(backend string, dsn string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataBackend = backend
		c.metadataDSN = dsn
	}
}

// WithBlockInterval specifies the time between blocks of the wall clock
func WithBlockInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.blockInterval = interval
	}
}

// WithAPIListenAddress enables the REST API on the given address
func WithAPIListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithSubmitEnabled allows transactions to be submitted through the API
func WithSubmitEnabled(enabled bool) ConfigOptionFunc {
	return func(c *Config) {
		c.submitEnabled = enabled
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) OTLP collector at localhost:4318 or
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. Default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
