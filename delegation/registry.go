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

// Package delegation implements the delegate registry: delegate
// registration, custodial token delegation with a concentration cap, and
// live voting power gated by a minimum holding period.
package delegation

import (
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// BasisPoints is the denominator of the delegation cap
	BasisPoints uint64 = 10_000

	DefaultDelegationCap    uint64 = 1_000
	DefaultDelegationPeriod        = 7 * 24 * time.Hour
)

// TokenLedger is the token the registry takes custody of
type TokenLedger interface {
	TotalSupply() *uint256.Int
	Transfer(caller common.Address, to common.Address, amount *uint256.Int) error
	TransferFrom(caller common.Address, from common.Address, to common.Address, amount *uint256.Int) error
}

type Config struct {
	Address common.Address
	Owner   common.Address
	Token   TokenLedger
	// DelegationCap is the maximum share of total supply, in basis points,
	// that may be delegated to one delegate
	DelegationCap uint64
	// DelegationPeriod is how long a delegation must be held before it counts
	DelegationPeriod time.Duration
	// AutoExpiryPeriod makes delegations expire this long after they are
	// made. Zero disables expiry.
	AutoExpiryPeriod time.Duration
	Logger           *slog.Logger
}

// Delegate is a registered participant who can receive delegations
type Delegate struct {
	Address      common.Address
	Profile      string
	Philosophy   string
	Interests    string
	RegisteredAt uint64
	Active       bool
}

// Delegation is the tokens an owner has placed with a delegate
type Delegation struct {
	Owner       common.Address
	Delegate    common.Address
	Amount      uint256.Int
	DelegatedAt uint64
	// ExpiresAt is zero for delegations that never expire
	ExpiresAt uint64
}

type delegationKey struct {
	owner    common.Address
	delegate common.Address
}

type Registry struct {
	env     chain.Env
	config  Config
	logger  *slog.Logger
	guard   chain.Guard
	methods *chain.Dispatcher
	state   *state
}

type state struct {
	owner          common.Address
	cap            uint64
	period         uint64
	autoExpiry     uint64
	delegates      map[common.Address]Delegate
	delegateOrder  []common.Address
	delegations    map[delegationKey]Delegation
	delegators     map[common.Address][]common.Address
	delegatorSeen  map[delegationKey]bool
	totalTo        map[common.Address]uint256.Int
	totalBy        map[common.Address]uint256.Int
	totalDelegated uint256.Int
	checkpoints    map[common.Address]chain.Checkpoints
}

func (s *state) clone() *state {
	ret := &state{
		owner:          s.owner,
		cap:            s.cap,
		period:         s.period,
		autoExpiry:     s.autoExpiry,
		delegates:      maps.Clone(s.delegates),
		delegateOrder:  slices.Clone(s.delegateOrder),
		delegations:    maps.Clone(s.delegations),
		delegators:     make(map[common.Address][]common.Address, len(s.delegators)),
		delegatorSeen:  maps.Clone(s.delegatorSeen),
		totalTo:        maps.Clone(s.totalTo),
		totalBy:        maps.Clone(s.totalBy),
		totalDelegated: s.totalDelegated,
		checkpoints:    make(map[common.Address]chain.Checkpoints, len(s.checkpoints)),
	}
	for k, v := range s.delegators {
		ret.delegators[k] = slices.Clone(v)
	}
	for k, v := range s.checkpoints {
		ret.checkpoints[k] = v.Clone()
	}
	return ret
}

func New(env chain.Env, cfg Config) (*Registry, error) {
	if cfg.Address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Token == nil {
		return nil, ErrNoToken
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.DelegationCap == 0 {
		cfg.DelegationCap = DefaultDelegationCap
	}
	if cfg.DelegationCap > BasisPoints {
		return nil, ErrInvalidCap
	}
	if cfg.DelegationPeriod == 0 {
		cfg.DelegationPeriod = DefaultDelegationPeriod
	}
	r := &Registry{
		env:    env,
		config: cfg,
		logger: cfg.Logger.With("component", "delegation"),
		state: &state{
			owner:         cfg.Owner,
			cap:           cfg.DelegationCap,
			period:        uint64(cfg.DelegationPeriod / time.Second),
			autoExpiry:    uint64(cfg.AutoExpiryPeriod / time.Second),
			delegates:     make(map[common.Address]Delegate),
			delegations:   make(map[delegationKey]Delegation),
			delegators:    make(map[common.Address][]common.Address),
			delegatorSeen: make(map[delegationKey]bool),
			totalTo:       make(map[common.Address]uint256.Int),
			totalBy:       make(map[common.Address]uint256.Int),
			checkpoints:   make(map[common.Address]chain.Checkpoints),
		},
	}
	r.registerMethods()
	return r, nil
}

func (r *Registry) Address() common.Address {
	return r.config.Address
}

func (r *Registry) Snapshot() any {
	return r.state.clone()
}

func (r *Registry) Restore(snapshot any) {
	r.state = snapshot.(*state)
}

func (r *Registry) Owner() common.Address {
	return r.state.owner
}

// RegisterDelegate records the caller as an active delegate. Registration
// is permanent: a deactivated delegate cannot register again.
func (r *Registry) RegisterDelegate(caller common.Address, profile string, philosophy string, interests string) error {
	if profile == "" {
		return ErrEmptyProfile
	}
	if _, ok := r.state.delegates[caller]; ok {
		return ErrAlreadyRegistered
	}
	d := Delegate{
		Address:      caller,
		Profile:      profile,
		Philosophy:   philosophy,
		Interests:    interests,
		RegisteredAt: r.env.Now(),
		Active:       true,
	}
	r.state.delegates[caller] = d
	r.state.delegateOrder = append(r.state.delegateOrder, caller)
	r.env.Emit(DelegateRegisteredEventType, DelegateRegisteredEvent{Delegate: d})
	r.logger.Debug("delegate registered", "delegate", caller.Hex())
	return nil
}

func (r *Registry) UpdateDelegate(caller common.Address, profile string, philosophy string, interests string) error {
	d, ok := r.state.delegates[caller]
	if !ok {
		return ErrNotRegistered
	}
	if profile == "" {
		return ErrEmptyProfile
	}
	d.Profile = profile
	d.Philosophy = philosophy
	d.Interests = interests
	r.state.delegates[caller] = d
	r.env.Emit(DelegateUpdatedEventType, DelegateUpdatedEvent{Delegate: d})
	return nil
}

// DeactivateDelegate stops the caller from receiving new delegations.
// There is no reactivation; existing delegations stay until withdrawn.
func (r *Registry) DeactivateDelegate(caller common.Address) error {
	d, ok := r.state.delegates[caller]
	if !ok {
		return ErrNotRegistered
	}
	if !d.Active {
		return nil
	}
	d.Active = false
	r.state.delegates[caller] = d
	r.env.Emit(DelegateDeactivatedEventType, DelegateDeactivatedEvent{Delegate: caller})
	r.logger.Debug("delegate deactivated", "delegate", caller.Hex())
	return nil
}

// DelegateInfo returns the registration record of addr
func (r *Registry) DelegateInfo(addr common.Address) (Delegate, bool) {
	d, ok := r.state.delegates[addr]
	return d, ok
}

func (r *Registry) IsActiveDelegate(addr common.Address) bool {
	d, ok := r.state.delegates[addr]
	return ok && d.Active
}

// ListDelegates returns delegates in registration order
func (r *Registry) ListDelegates(activeOnly bool) []Delegate {
	ret := make([]Delegate, 0, len(r.state.delegateOrder))
	for _, addr := range r.state.delegateOrder {
		d := r.state.delegates[addr]
		if activeOnly && !d.Active {
			continue
		}
		ret = append(ret, d)
	}
	return ret
}
