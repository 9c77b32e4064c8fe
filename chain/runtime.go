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

package chain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/govern/chain"

// Contract is an addressable component that accepts ABI encoded calls
type Contract interface {
	Address() common.Address
	Call(msg Msg, data []byte) ([]byte, error)
}

// Snapshotter is implemented by contracts whose state must be rolled back
// when an enclosing call frame fails
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// Env is the execution environment handed to contracts
type Env interface {
	Clock
	// Frame runs fn atomically: on error every registered contract is
	// restored and events emitted inside fn are discarded
	Frame(fn func() error) error
	Emit(eventType event.EventType, data any)
	// Call performs a routed contract call inside its own frame
	Call(from common.Address, to common.Address, value *uint256.Int, data []byte) ([]byte, error)
}

type RuntimeConfig struct {
	Clock        Clock
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	Journal      Journal
}

type frame struct {
	snapshots []any
	events    []event.Event
}

// Runtime serializes transactions over a set of contracts
type Runtime struct {
	mu           sync.RWMutex
	config       RuntimeConfig
	logger       *slog.Logger
	tracer       trace.Tracer
	contracts    map[common.Address]Contract
	snapshotters []Snapshotter
	frames       []*frame
	eventSeq     uint64
	txSeq        uint64
	metrics      *runtimeMetrics
}

func NewRuntime(cfg RuntimeConfig) *Runtime {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Clock == nil {
		cfg.Clock = NewWallClock(time.Now(), DefaultBlockTime)
	}
	r := &Runtime{
		config:    cfg,
		logger:    cfg.Logger,
		tracer:    otel.Tracer(tracerName),
		contracts: make(map[common.Address]Contract),
	}
	if cfg.PromRegistry != nil {
		r.initMetrics(cfg.PromRegistry)
	}
	return r
}

// Register makes a contract callable at its address
func (r *Runtime) Register(c Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[c.Address()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAddress, c.Address().Hex())
	}
	r.contracts[c.Address()] = c
	if s, ok := c.(Snapshotter); ok {
		r.snapshotters = append(r.snapshotters, s)
	}
	return nil
}

// SetJournal attaches the journal that committed transactions are appended to
func (r *Runtime) SetJournal(journal Journal, lastSequence uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config.Journal = journal
	r.txSeq = lastSequence
}

func (r *Runtime) Clock() Clock {
	return r.config.Clock
}

func (r *Runtime) BlockNumber() uint64 {
	return r.config.Clock.BlockNumber()
}

func (r *Runtime) Now() uint64 {
	return r.config.Clock.Now()
}

// Sequence returns the sequence number of the last committed transaction
func (r *Runtime) Sequence() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.txSeq
}

// EventSequence returns the sequence number of the last published event
func (r *Runtime) EventSequence() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eventSeq
}

func (r *Runtime) Frame(fn func() error) (err error) {
	f := &frame{snapshots: make([]any, len(r.snapshotters))}
	for i, s := range r.snapshotters {
		f.snapshots[i] = s.Snapshot()
	}
	depth := len(r.frames)
	r.frames = append(r.frames, f)
	defer func() {
		if p := recover(); p != nil {
			r.frames = r.frames[:depth]
			r.restore(f)
			panic(p)
		}
	}()
	err = fn()
	r.frames = r.frames[:depth]
	if err != nil {
		r.restore(f)
		return err
	}
	if depth > 0 {
		parent := r.frames[depth-1]
		parent.events = append(parent.events, f.events...)
		return nil
	}
	for _, evt := range f.events {
		r.publish(evt)
	}
	return nil
}

func (r *Runtime) restore(f *frame) {
	for i, s := range r.snapshotters {
		s.Restore(f.snapshots[i])
	}
}

func (r *Runtime) Emit(eventType event.EventType, data any) {
	evt := event.Event{
		Type:      eventType,
		Block:     r.config.Clock.BlockNumber(),
		Timestamp: Time(r.config.Clock.Now()),
		Data:      data,
	}
	if len(r.frames) > 0 {
		top := r.frames[len(r.frames)-1]
		top.events = append(top.events, evt)
		return
	}
	r.publish(evt)
}

func (r *Runtime) publish(evt event.Event) {
	r.eventSeq++
	evt.Sequence = r.eventSeq
	r.logger.Debug(
		"event emitted",
		"component", "runtime",
		"type", evt.Type,
		"sequence", evt.Sequence,
		"block", evt.Block,
	)
	if r.config.EventBus != nil {
		r.config.EventBus.Publish(evt.Type, evt)
	}
}

func (r *Runtime) Call(
	from common.Address,
	to common.Address,
	value *uint256.Int,
	data []byte,
) ([]byte, error) {
	c, ok := r.contracts[to]
	if !ok {
		// A call without data to a plain account is a no-op value transfer
		if len(data) == 0 {
			return nil, nil
		}
		return nil, &RevertError{To: to, Err: ErrNoContract}
	}
	msg := Msg{From: from}
	if value != nil {
		msg.Value = *value
	}
	var ret []byte
	err := r.Frame(func() error {
		var err error
		ret, err = c.Call(msg, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Execute runs fn as a single serialized transaction
func (r *Runtime) Execute(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Frame(fn)
}

// View runs fn with a consistent read-only view of contract state
func (r *Runtime) View(fn func() error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn()
}

// Submit executes a transaction and journals it on success. A failed
// transaction leaves no state change and returns the revert error along
// with a failed receipt.
func (r *Runtime) Submit(ctx context.Context, tx Transaction) (*Receipt, error) {
	_, span := r.tracer.Start(
		ctx,
		"runtime.submit",
		trace.WithAttributes(
			attribute.String("tx.from", tx.From.Hex()),
			attribute.String("tx.to", tx.To.Hex()),
			attribute.Int("tx.data_len", len(tx.Data)),
		),
	)
	defer span.End()
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	receipt := &Receipt{
		Block:     r.config.Clock.BlockNumber(),
		Timestamp: r.config.Clock.Now(),
	}
	eventsBefore := r.eventSeq
	seq := r.txSeq + 1
	err := r.Frame(func() error {
		ret, err := r.Call(tx.From, tx.To, &tx.Value, tx.Data)
		if err != nil {
			return err
		}
		receipt.Return = ret
		if r.config.Journal == nil {
			return nil
		}
		rec := JournalRecord{
			Sequence:  seq,
			Block:     receipt.Block,
			Timestamp: receipt.Timestamp,
			Tx:        tx,
		}
		if err := r.config.Journal.Append(ctx, rec); err != nil {
			return fmt.Errorf("append journal record: %w", err)
		}
		return nil
	})
	r.observe(err, time.Since(start))
	if err != nil {
		receipt.Status = ReceiptStatusFailed
		receipt.Error = err.Error()
		receipt.Return = nil
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug(
			"transaction reverted",
			"component", "runtime",
			"from", tx.From.Hex(),
			"to", tx.To.Hex(),
			"error", err,
		)
		return receipt, err
	}
	r.txSeq = seq
	receipt.Sequence = seq
	receipt.Status = ReceiptStatusSuccess
	receipt.Events = int(r.eventSeq - eventsBefore) // #nosec G115
	span.SetAttributes(
		attribute.Int64("tx.sequence", int64(seq)), // #nosec G115
		attribute.Int("tx.events", receipt.Events),
	)
	return receipt, nil
}
