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

// Package indexer projects committed events into the sqlite store
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/blinklabs-io/govern/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/govern/event"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	EventBus     *event.EventBus
	Store        *sqlite.MetadataStoreSqlite
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

// Indexer subscribes to every event on the bus and writes the matching
// projection rows
type Indexer struct {
	config  Config
	logger  *slog.Logger
	metrics *indexerMetrics

	mu             sync.Mutex
	running        bool
	cancel         context.CancelFunc
	subscriptionId event.EventSubscriberId
	loopWg         sync.WaitGroup

	processed atomic.Uint64
	waitMu    sync.Mutex
	waitCh    chan struct{}
}

func New(cfg Config) (*Indexer, error) {
	if cfg.EventBus == nil {
		return nil, errors.New("indexer: nil event bus")
	}
	if cfg.Store == nil {
		return nil, errors.New("indexer: nil store")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	i := &Indexer{
		config: cfg,
		logger: cfg.Logger.With("component", "indexer"),
		waitCh: make(chan struct{}),
	}
	if cfg.PromRegistry != nil {
		i.initMetrics(cfg.PromRegistry)
	}
	return i, nil
}

// Start subscribes to the event bus. Cancelling ctx stops the indexer.
func (i *Indexer) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("indexer: parent context already done: %w", err)
	}
	childCtx, cancel := context.WithCancel(ctx)
	var evtCh <-chan event.Event
	i.subscriptionId, evtCh = i.config.EventBus.Subscribe(event.AllEventsType)
	i.cancel = cancel
	i.running = true
	i.loopWg.Add(2)
	go func() {
		defer i.loopWg.Done()
		i.eventLoop(evtCh)
	}()
	// Unsubscribing closes the channel, which ends the event loop once it
	// has drained anything already delivered
	go func() {
		defer i.loopWg.Done()
		<-childCtx.Done()
		i.unsubscribe()
	}()
	i.logger.Info("indexer started")
	return nil
}

func (i *Indexer) unsubscribe() {
	i.mu.Lock()
	subId := i.subscriptionId
	i.subscriptionId = 0
	i.mu.Unlock()
	if subId != 0 {
		i.config.EventBus.Unsubscribe(event.AllEventsType, subId)
	}
}

// Stop unsubscribes and waits for the event loop to finish
func (i *Indexer) Stop() error {
	i.mu.Lock()
	if !i.running {
		i.mu.Unlock()
		return nil
	}
	cancel := i.cancel
	i.cancel = nil
	i.running = false
	i.mu.Unlock()

	cancel()
	i.loopWg.Wait()
	i.logger.Info("indexer stopped")
	return nil
}

func (i *Indexer) eventLoop(evtCh <-chan event.Event) {
	for evt := range evtCh {
		if err := i.handleEvent(evt); err != nil {
			if i.metrics != nil {
				i.metrics.failed.WithLabelValues(string(evt.Type)).Inc()
			}
			i.logger.Error(
				"failed to index event",
				"type", evt.Type,
				"sequence", evt.Sequence,
				"error", err,
			)
		} else if i.metrics != nil {
			i.metrics.processed.WithLabelValues(string(evt.Type)).Inc()
		}
		i.markProcessed(evt.Sequence)
	}
}

func (i *Indexer) markProcessed(seq uint64) {
	i.waitMu.Lock()
	if seq > i.processed.Load() {
		i.processed.Store(seq)
	}
	close(i.waitCh)
	i.waitCh = make(chan struct{})
	i.waitMu.Unlock()
	if i.metrics != nil {
		i.metrics.lastSequence.Set(float64(seq))
	}
}

// LastSequence returns the sequence of the most recently handled event
func (i *Indexer) LastSequence() uint64 {
	return i.processed.Load()
}

// WaitFor blocks until the event with the given sequence has been handled
func (i *Indexer) WaitFor(ctx context.Context, seq uint64) error {
	for {
		i.waitMu.Lock()
		if i.processed.Load() >= seq {
			i.waitMu.Unlock()
			return nil
		}
		ch := i.waitCh
		i.waitMu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
