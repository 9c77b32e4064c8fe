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

// Package council implements the emergency council, an M-of-N body of
// foundation and external members that approves and executes urgent
// actions outside the normal proposal timeline.
package council

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
)

const DefaultMinMembers = 3

type Member struct {
	Address    common.Address
	Foundation bool
}

type Config struct {
	Address common.Address
	// DAO controls membership and threshold, normally the timelock
	DAO      common.Address
	Governor common.Address
	Timelock common.Address
	Members  []Member
	// Threshold defaults to two thirds of the members, rounded up
	Threshold  int
	MinMembers int
	Logger     *slog.Logger
}

type Council struct {
	env     chain.Env
	config  Config
	logger  *slog.Logger
	guard   chain.Guard
	methods *chain.Dispatcher
	state   *state
}

type state struct {
	dao       common.Address
	members   []Member
	index     map[common.Address]int
	threshold int
	paused    bool
	actions   map[uint64]Action
	nextID    uint64
	pending   []uint64
}

func (s *state) clone() *state {
	ret := *s
	ret.members = slices.Clone(s.members)
	ret.index = maps.Clone(s.index)
	ret.actions = make(map[uint64]Action, len(s.actions))
	for k, v := range s.actions {
		ret.actions[k] = v.clone()
	}
	ret.pending = slices.Clone(s.pending)
	return &ret
}

// DefaultThreshold is two thirds of memberCount, rounded up
func DefaultThreshold(memberCount int) int {
	return (2*memberCount + 2) / 3
}

func New(env chain.Env, cfg Config) (*Council, error) {
	if cfg.Address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.MinMembers == 0 {
		cfg.MinMembers = DefaultMinMembers
	}
	if len(cfg.Members) < cfg.MinMembers {
		return nil, ErrBelowMinimumMembers
	}
	s := &state{
		dao:     cfg.DAO,
		index:   make(map[common.Address]int, len(cfg.Members)),
		actions: make(map[uint64]Action),
		nextID:  1,
	}
	foundation := false
	for _, m := range cfg.Members {
		if m.Address == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if _, ok := s.index[m.Address]; ok {
			return nil, ErrAlreadyMember
		}
		s.index[m.Address] = len(s.members)
		s.members = append(s.members, m)
		foundation = foundation || m.Foundation
	}
	if !foundation {
		return nil, ErrNoFoundationMember
	}
	s.threshold = cfg.Threshold
	if s.threshold == 0 {
		s.threshold = DefaultThreshold(len(s.members))
	}
	if s.threshold < 1 || s.threshold > len(s.members) {
		return nil, ErrInvalidThreshold
	}
	c := &Council{
		env:    env,
		config: cfg,
		logger: cfg.Logger.With("component", "council"),
		state:  s,
	}
	c.registerMethods()
	for _, m := range s.members {
		env.Emit(MemberAddedEventType, MemberAddedEvent{Member: m})
	}
	env.Emit(ThresholdUpdatedEventType, ThresholdUpdatedEvent{Threshold: s.threshold})
	return c, nil
}

func (c *Council) Address() common.Address {
	return c.config.Address
}

func (c *Council) Snapshot() any {
	return c.state.clone()
}

func (c *Council) Restore(snapshot any) {
	c.state = snapshot.(*state)
}

func (c *Council) DAO() common.Address {
	return c.state.dao
}

func (c *Council) Members() []Member {
	return slices.Clone(c.state.members)
}

func (c *Council) IsMember(addr common.Address) bool {
	_, ok := c.state.index[addr]
	return ok
}

func (c *Council) IsFoundationMember(addr common.Address) bool {
	i, ok := c.state.index[addr]
	return ok && c.state.members[i].Foundation
}

func (c *Council) Threshold() int {
	return c.state.threshold
}

func (c *Council) MinMembers() int {
	return c.config.MinMembers
}

// Paused reports whether the emergency pause is engaged
func (c *Council) Paused() bool {
	return c.state.paused
}

func (c *Council) foundationCount() int {
	n := 0
	for _, m := range c.state.members {
		if m.Foundation {
			n++
		}
	}
	return n
}

// AddMember admits a new member. The threshold is left unchanged.
func (c *Council) AddMember(caller common.Address, addr common.Address, foundation bool) error {
	if caller != c.state.dao {
		return ErrOnlyDAOCanModifyMembers
	}
	if addr == (common.Address{}) {
		return ErrZeroAddress
	}
	if c.IsMember(addr) {
		return ErrAlreadyMember
	}
	m := Member{Address: addr, Foundation: foundation}
	c.state.index[addr] = len(c.state.members)
	c.state.members = append(c.state.members, m)
	c.env.Emit(MemberAddedEventType, MemberAddedEvent{Member: m})
	c.logger.Info("council member added", "member", addr.Hex(), "foundation", foundation)
	return nil
}

// RemoveMember drops a member, clamping the threshold to the new member
// count when needed. Approvals given by the removed member stop counting.
func (c *Council) RemoveMember(caller common.Address, addr common.Address) error {
	if caller != c.state.dao {
		return ErrOnlyDAOCanModifyMembers
	}
	i, ok := c.state.index[addr]
	if !ok {
		return ErrNotMember
	}
	if len(c.state.members)-1 < c.config.MinMembers {
		return ErrBelowMinimumMembers
	}
	if c.state.members[i].Foundation && c.foundationCount() == 1 {
		return ErrCannotRemoveLastFoundationMember
	}
	c.state.members = slices.Delete(c.state.members, i, i+1)
	delete(c.state.index, addr)
	for j := i; j < len(c.state.members); j++ {
		c.state.index[c.state.members[j].Address] = j
	}
	c.env.Emit(MemberRemovedEventType, MemberRemovedEvent{Member: addr})
	if n := len(c.state.members); c.state.threshold > n {
		c.updateThreshold(n)
	}
	c.logger.Info("council member removed", "member", addr.Hex())
	return nil
}

func (c *Council) SetThreshold(caller common.Address, threshold int) error {
	if caller != c.state.dao {
		return ErrOnlyDAOCanModifyMembers
	}
	if threshold < 1 || threshold > len(c.state.members) {
		return ErrInvalidThreshold
	}
	c.updateThreshold(threshold)
	return nil
}

func (c *Council) updateThreshold(threshold int) {
	prev := c.state.threshold
	c.state.threshold = threshold
	c.env.Emit(ThresholdUpdatedEventType, ThresholdUpdatedEvent{
		Previous:  prev,
		Threshold: threshold,
	})
}

// SetDAO hands membership control to a new controller
func (c *Council) SetDAO(caller common.Address, dao common.Address) error {
	if caller != c.state.dao {
		return ErrOnlyDAOCanModifyMembers
	}
	if dao == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := c.state.dao
	c.state.dao = dao
	c.env.Emit(DAOUpdatedEventType, DAOUpdatedEvent{Previous: prev, DAO: dao})
	return nil
}
