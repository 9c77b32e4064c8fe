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

// Package timelock holds approved transactions for a mandatory delay before
// they can be executed, giving the security council a window to cancel them.
package timelock

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const (
	MinimumDelay = time.Hour
	MaximumDelay = 30 * 24 * time.Hour
	GracePeriod  = 14 * 24 * time.Hour
)

var gracePeriodSeconds = uint64(GracePeriod / time.Second)

type Status uint8

const (
	StatusUnqueued Status = iota
	StatusQueued
	StatusReady
	StatusExecuted
	StatusCanceled
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusUnqueued:
		return "unqueued"
	case StatusQueued:
		return "queued"
	case StatusReady:
		return "ready"
	case StatusExecuted:
		return "executed"
	case StatusCanceled:
		return "canceled"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

type Config struct {
	Address         common.Address
	Admin           common.Address
	Governor        common.Address
	SecurityCouncil common.Address
	Delay           time.Duration
	Logger          *slog.Logger
}

// Entry is a queued transaction. Canceled entries keep Queued set so that
// the exact tuple can never be queued again.
type Entry struct {
	Hash     common.Hash
	Target   common.Address
	Value    uint256.Int
	Data     []byte
	Eta      uint64
	QueuedAt uint64
	Queued   bool
	Executed bool
	Canceled bool
}

type Timelock struct {
	env     chain.Env
	config  Config
	logger  *slog.Logger
	guard   chain.Guard
	methods *chain.Dispatcher
	state   *state
}

type state struct {
	admin    common.Address
	governor common.Address
	council  common.Address
	delay    uint64
	entries  map[common.Hash]Entry
}

func (s *state) clone() *state {
	ret := *s
	ret.entries = maps.Clone(s.entries)
	return &ret
}

func New(env chain.Env, cfg Config) (*Timelock, error) {
	if cfg.Address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Delay == 0 {
		cfg.Delay = 2 * 24 * time.Hour
	}
	if err := validateDelay(uint64(cfg.Delay / time.Second)); err != nil {
		return nil, err
	}
	t := &Timelock{
		env:    env,
		config: cfg,
		logger: cfg.Logger.With("component", "timelock"),
		state: &state{
			admin:    cfg.Admin,
			governor: cfg.Governor,
			council:  cfg.SecurityCouncil,
			delay:    uint64(cfg.Delay / time.Second),
			entries:  make(map[common.Hash]Entry),
		},
	}
	t.registerMethods()
	return t, nil
}

func validateDelay(seconds uint64) error {
	if seconds < uint64(MinimumDelay/time.Second) ||
		seconds > uint64(MaximumDelay/time.Second) {
		return ErrInvalidDelay
	}
	return nil
}

var hashArguments = func() abi.Arguments {
	mustType := func(name string) abi.Type {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			panic(err)
		}
		return typ
	}
	return abi.Arguments{
		{Type: mustType("address")},
		{Type: mustType("uint256")},
		{Type: mustType("bytes")},
		{Type: mustType("uint256")},
	}
}()

// HashTransaction returns the entry key of a transaction:
// keccak256(abi.encode(target, value, data, eta))
func HashTransaction(target common.Address, value *uint256.Int, data []byte, eta uint64) common.Hash {
	if data == nil {
		data = []byte{}
	}
	packed, err := hashArguments.Pack(target, value.ToBig(), data, chain.BigUint64(eta))
	if err != nil {
		// Only reachable with mismatched static types
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

func (t *Timelock) Address() common.Address {
	return t.config.Address
}

func (t *Timelock) Snapshot() any {
	return t.state.clone()
}

func (t *Timelock) Restore(snapshot any) {
	t.state = snapshot.(*state)
}

func (t *Timelock) Admin() common.Address {
	return t.state.admin
}

func (t *Timelock) Governor() common.Address {
	return t.state.governor
}

func (t *Timelock) SecurityCouncil() common.Address {
	return t.state.council
}

// Delay returns the queueing delay in seconds
func (t *Timelock) Delay() uint64 {
	return t.state.delay
}

func (t *Timelock) GracePeriod() uint64 {
	return gracePeriodSeconds
}

// QueueTransaction schedules a transaction for execution at now + delay
// and returns its entry hash and eta
func (t *Timelock) QueueTransaction(
	caller common.Address,
	target common.Address,
	value *uint256.Int,
	data []byte,
) (common.Hash, uint64, error) {
	if caller != t.state.governor {
		return common.Hash{}, 0, ErrNotGovernor
	}
	now := t.env.Now()
	eta := now + t.state.delay
	hash := HashTransaction(target, value, data, eta)
	if _, ok := t.state.entries[hash]; ok {
		return common.Hash{}, 0, ErrAlreadyQueued
	}
	entry := Entry{
		Hash:     hash,
		Target:   target,
		Value:    *value,
		Data:     bytes.Clone(data),
		Eta:      eta,
		QueuedAt: now,
		Queued:   true,
	}
	t.state.entries[hash] = entry
	t.env.Emit(QueuedEventType, QueuedEvent{Entry: entry})
	t.logger.Debug(
		"transaction queued",
		"hash", hash.Hex(),
		"target", target.Hex(),
		"eta", eta,
	)
	return hash, eta, nil
}

// ExecuteTransaction performs a due transaction. Entries are single use.
func (t *Timelock) ExecuteTransaction(
	caller common.Address,
	target common.Address,
	value *uint256.Int,
	data []byte,
	eta uint64,
) ([]byte, error) {
	if caller != t.state.governor {
		return nil, ErrNotGovernor
	}
	hash := HashTransaction(target, value, data, eta)
	var ret []byte
	err := t.guard.Run(func() error {
		return t.env.Frame(func() error {
			entry, ok := t.state.entries[hash]
			if !ok || !entry.Queued || entry.Executed {
				return ErrNotQueued
			}
			if entry.Canceled {
				return ErrAlreadyCanceled
			}
			now := t.env.Now()
			if now < eta {
				return ErrNotYetDue
			}
			if now > eta+gracePeriodSeconds {
				return ErrExpired
			}
			entry.Queued = false
			entry.Executed = true
			t.state.entries[hash] = entry
			out, err := t.env.Call(t.config.Address, target, value, data)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
			}
			ret = out
			t.env.Emit(ExecutedEventType, ExecutedEvent{Entry: entry})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	t.logger.Debug("transaction executed", "hash", hash.Hex(), "target", target.Hex())
	return ret, nil
}

func (t *Timelock) CancelTransaction(
	caller common.Address,
	target common.Address,
	value *uint256.Int,
	data []byte,
	eta uint64,
) error {
	return t.CancelTransactionByHash(caller, HashTransaction(target, value, data, eta))
}

// CancelTransactionByHash permanently blocks a queued transaction
func (t *Timelock) CancelTransactionByHash(caller common.Address, hash common.Hash) error {
	if caller != t.state.council {
		return ErrNotSecurityCouncil
	}
	entry, ok := t.state.entries[hash]
	if !ok || entry.Executed {
		return ErrNotQueued
	}
	if entry.Canceled {
		return ErrAlreadyCanceled
	}
	entry.Canceled = true
	t.state.entries[hash] = entry
	t.env.Emit(CanceledEventType, CanceledEvent{Hash: hash})
	t.logger.Debug("transaction canceled", "hash", hash.Hex())
	return nil
}

// Entry returns the record for hash
func (t *Timelock) Entry(hash common.Hash) (Entry, bool) {
	e, ok := t.state.entries[hash]
	if ok {
		e.Data = bytes.Clone(e.Data)
	}
	return e, ok
}

// Status derives the lifecycle state of hash at the current time
func (t *Timelock) Status(hash common.Hash) Status {
	e, ok := t.state.entries[hash]
	switch {
	case !ok:
		return StatusUnqueued
	case e.Executed:
		return StatusExecuted
	case e.Canceled:
		return StatusCanceled
	}
	now := t.env.Now()
	switch {
	case now > e.Eta+gracePeriodSeconds:
		return StatusExpired
	case now >= e.Eta:
		return StatusReady
	default:
		return StatusQueued
	}
}

// Entries returns every entry in no particular order
func (t *Timelock) Entries() []Entry {
	ret := make([]Entry, 0, len(t.state.entries))
	for _, e := range t.state.entries {
		ret = append(ret, e)
	}
	return ret
}
