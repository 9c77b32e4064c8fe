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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/govern/api"
	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/database"
	"github.com/blinklabs-io/govern/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/event"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/indexer"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
)

const DefaultShutdownTimeout = 30 * time.Second

var ErrNotStarted = errors.New("DAO not started")

// DAO runs the governance contracts along with their journal, projections
// and API
type DAO struct {
	config        Config
	clock         *replayClock
	eventBus      *event.EventBus
	runtime       *chain.Runtime
	db            *database.Database
	indexer       *indexer.Indexer
	api           *api.Server
	contracts     *contracts
	cancel        context.CancelFunc
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	mu            sync.Mutex
	started       bool
	shutdownOnce  sync.Once
}

func New(cfg Config) (*DAO, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	d := &DAO{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
		clock:    newReplayClock(cfg.genesis.Timestamp),
		done:     make(chan struct{}),
	}
	return d, nil
}

// Run starts the DAO and blocks until it is stopped or ctx is done
func (d *DAO) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return errors.Join(err, d.Stop())
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return d.Stop()
	}
}

// Start deploys the genesis, replays the journal and starts serving. It
// returns once the DAO accepts transactions. Stop releases resources even
// when Start fails.
func (d *DAO) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errors.New("DAO already started")
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)
	logger := d.config.logger
	if d.config.tracing {
		if err := d.setupTracing(ctx); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:         d.config.dataDir,
		MetadataBackend: d.config.metadataBackend,
		MetadataDSN:     d.config.metadataDSN,
		Logger:          logger,
		PromRegistry:    d.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	d.db = db
	// Projections are rebuilt from the replayed event history
	if err := db.Metadata().Reset(); err != nil {
		return fmt.Errorf("failed to reset projections: %w", err)
	}
	idx, err := indexer.New(indexer.Config{
		EventBus:     d.eventBus,
		Store:        db.Metadata(),
		Logger:       logger,
		PromRegistry: d.config.promRegistry,
	})
	if err != nil {
		return err
	}
	d.indexer = idx
	if err := idx.Start(ctx); err != nil {
		return fmt.Errorf("failed to start indexer: %w", err)
	}
	d.runtime = chain.NewRuntime(chain.RuntimeConfig{
		Clock:        d.clock,
		EventBus:     d.eventBus,
		Logger:       logger,
		PromRegistry: d.config.promRegistry,
	})
	deployed, err := d.config.genesis.deploy(d.runtime, d.config)
	if err != nil {
		return err
	}
	d.contracts = deployed
	lastSeq, err := d.replay(ctx)
	if err != nil {
		return fmt.Errorf("failed to replay journal: %w", err)
	}
	d.runtime.SetJournal(db, lastSeq)
	d.clock.goLive(d.liveClock())
	logger.Info(
		"DAO started",
		"component", "govern",
		"token", deployed.addresses.Token.Hex(),
		"registry", deployed.addresses.Registry.Hex(),
		"timelock", deployed.addresses.Timelock.Hex(),
		"governor", deployed.addresses.Governor.Hex(),
		"council", deployed.addresses.Council.Hex(),
		"replayed", lastSeq,
		"block", d.clock.BlockNumber(),
	)
	if d.config.apiListenAddress != "" {
		d.api = api.New(
			api.Config{
				ListenAddress: d.config.apiListenAddress,
				SubmitEnabled: d.config.submitEnabled,
			},
			d,
			logger,
		)
		if err := d.api.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *DAO) liveClock() chain.Clock {
	if d.config.clock != nil {
		return d.config.clock
	}
	return chain.NewWallClock(chain.Time(d.config.genesis.Timestamp), d.config.blockInterval)
}

// WaitIndexed blocks until every event published so far is projected
func (d *DAO) WaitIndexed(ctx context.Context) error {
	rt, idx := d.running()
	if rt == nil || idx == nil {
		return ErrNotStarted
	}
	return idx.WaitFor(ctx, rt.EventSequence())
}

// Submit executes a transaction against the contracts
func (d *DAO) Submit(ctx context.Context, tx chain.Transaction) (*chain.Receipt, error) {
	rt, _ := d.running()
	if rt == nil {
		return nil, ErrNotStarted
	}
	return rt.Submit(ctx, tx)
}

// running waits out an in-progress Start
func (d *DAO) running() (*chain.Runtime, *indexer.Indexer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runtime, d.indexer
}

func (d *DAO) Addresses() Addresses {
	return d.config.genesis.Addresses()
}

func (d *DAO) EventBus() *event.EventBus {
	return d.eventBus
}

func (d *DAO) Runtime() *chain.Runtime {
	return d.runtime
}

func (d *DAO) Token() *token.Token {
	return d.contracts.token
}

func (d *DAO) Registry() *delegation.Registry {
	return d.contracts.registry
}

func (d *DAO) Timelock() *timelock.Timelock {
	return d.contracts.timelock
}

func (d *DAO) Governor() *governor.Governor {
	return d.contracts.governor
}

func (d *DAO) Council() *council.Council {
	return d.contracts.council
}

func (d *DAO) Store() *sqlite.MetadataStoreSqlite {
	return d.db.Metadata()
}

// APIAddr returns the address the API is listening on, or "" when it is
// disabled
func (d *DAO) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.Addr()
}

func (d *DAO) Stop() error {
	var err error
	d.shutdownOnce.Do(func() {
		err = d.shutdown()
	})
	return err
}

func (d *DAO) shutdown() error {
	shutdownTimeout := DefaultShutdownTimeout
	if d.config.shutdownTimeout > 0 {
		shutdownTimeout = d.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger := d.config.logger
	var err error

	logger.Debug("starting graceful shutdown", "component", "govern")

	// Stop accepting new transactions
	if d.api != nil {
		if stopErr := d.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Drain projections before the store closes
	if d.indexer != nil {
		if stopErr := d.indexer.Stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("indexer shutdown: %w", stopErr))
		}
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.eventBus != nil {
		d.eventBus.Close()
	}
	if d.db != nil {
		if closeErr := d.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	for _, fn := range d.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	d.shutdownFuncs = nil

	logger.Debug("graceful shutdown complete", "component", "govern")
	close(d.done)
	return err
}
