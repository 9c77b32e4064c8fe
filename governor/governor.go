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

// Package governor implements the proposal engine: proposal creation with a
// burned creation cost, delegate voting weighted by live delegated power,
// and queueing and execution through the timelock.
package governor

import (
	"bytes"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// BasisPoints is the denominator of the quorum
	BasisPoints uint64 = 10_000

	DefaultQuorumBps    uint64 = 400
	DefaultVotingDelay  uint64 = 1
	DefaultVotingPeriod uint64 = 50_400
)

// BurnAddress receives proposal creation costs
var BurnAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// CostToken is the token proposal creation costs are paid in
type CostToken interface {
	TransferFrom(caller common.Address, from common.Address, to common.Address, amount *uint256.Int) error
}

// VotingPowerSource supplies delegate status and voting weight
type VotingPowerSource interface {
	IsActiveDelegate(addr common.Address) bool
	VotingPower(delegate common.Address) *uint256.Int
	TotalDelegated() *uint256.Int
}

// Timelock schedules and performs approved proposal actions
type Timelock interface {
	QueueTransaction(caller common.Address, target common.Address, value *uint256.Int, data []byte) (common.Hash, uint64, error)
	ExecuteTransaction(caller common.Address, target common.Address, value *uint256.Int, data []byte, eta uint64) ([]byte, error)
	GracePeriod() uint64
}

// Pauser reports whether the emergency pause is engaged
type Pauser interface {
	Paused() bool
}

type Config struct {
	Address  common.Address
	Owner    common.Address
	Token    CostToken
	Registry VotingPowerSource
	Timelock Timelock
	Guardian common.Address
	// QuorumBps is the share of total delegated supply, in basis points,
	// that must participate
	QuorumBps    uint64
	ProposalCost *uint256.Int
	// VotingDelay and VotingPeriod are measured in blocks
	VotingDelay  uint64
	VotingPeriod uint64
	Logger       *slog.Logger
}

// Action is a single call performed when a proposal executes
type Action struct {
	Target common.Address
	Value  uint256.Int
	Data   []byte
}

type Proposal struct {
	ID           uint64
	Proposer     common.Address
	Actions      []Action
	Description  string
	CreatedAt    uint64
	VoteStart    uint64
	VoteEnd      uint64
	Eta          uint64
	ForVotes     uint256.Int
	AgainstVotes uint256.Int
	AbstainVotes uint256.Int
	// QuorumSupply is the total delegated supply when the proposal was
	// created and is the quorum denominator for its whole lifetime
	QuorumSupply uint256.Int
	Canceled     bool
	Executed     bool
}

func (p Proposal) clone() Proposal {
	p.Actions = slices.Clone(p.Actions)
	for i := range p.Actions {
		p.Actions[i].Data = bytes.Clone(p.Actions[i].Data)
	}
	return p
}

// VoteReceipt records a delegate's vote on one proposal
type VoteReceipt struct {
	Voter   common.Address
	Support uint8
	Weight  uint256.Int
	Reason  string
}

type voteKey struct {
	id    uint64
	voter common.Address
}

type Governor struct {
	env     chain.Env
	config  Config
	logger  *slog.Logger
	guard   chain.Guard
	pauser  Pauser
	methods *chain.Dispatcher
	state   *state
}

type state struct {
	owner        common.Address
	guardian     common.Address
	quorumBps    uint64
	proposalCost uint256.Int
	votingDelay  uint64
	votingPeriod uint64
	proposals    map[uint64]Proposal
	count        uint64
	receipts     map[voteKey]VoteReceipt
	voters       map[uint64][]common.Address
}

func (s *state) clone() *state {
	ret := *s
	ret.proposals = maps.Clone(s.proposals)
	ret.receipts = maps.Clone(s.receipts)
	ret.voters = make(map[uint64][]common.Address, len(s.voters))
	for k, v := range s.voters {
		ret.voters[k] = slices.Clone(v)
	}
	return &ret
}

func New(env chain.Env, cfg Config) (*Governor, error) {
	if cfg.Address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Token == nil || cfg.Registry == nil || cfg.Timelock == nil {
		return nil, ErrMissingDependency
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.QuorumBps == 0 {
		cfg.QuorumBps = DefaultQuorumBps
	}
	if cfg.QuorumBps > BasisPoints {
		return nil, ErrInvalidQuorum
	}
	if cfg.VotingPeriod == 0 {
		cfg.VotingPeriod = DefaultVotingPeriod
	}
	g := &Governor{
		env:    env,
		config: cfg,
		logger: cfg.Logger.With("component", "governor"),
		state: &state{
			owner:        cfg.Owner,
			guardian:     cfg.Guardian,
			quorumBps:    cfg.QuorumBps,
			votingDelay:  cfg.VotingDelay,
			votingPeriod: cfg.VotingPeriod,
			proposals:    make(map[uint64]Proposal),
			receipts:     make(map[voteKey]VoteReceipt),
			voters:       make(map[uint64][]common.Address),
		},
	}
	if cfg.ProposalCost != nil {
		g.state.proposalCost = *cfg.ProposalCost
	}
	g.registerMethods()
	return g, nil
}

// SetPauser attaches the emergency pause. It is wiring, not a governed
// parameter, and is expected to be called once during bootstrap.
func (g *Governor) SetPauser(p Pauser) {
	g.pauser = p
}

func (g *Governor) Address() common.Address {
	return g.config.Address
}

func (g *Governor) Snapshot() any {
	return g.state.clone()
}

func (g *Governor) Restore(snapshot any) {
	g.state = snapshot.(*state)
}

func (g *Governor) paused() bool {
	return g.pauser != nil && g.pauser.Paused()
}

// Propose records a new proposal and charges the creation cost to the
// caller, who must have approved the governor for it
func (g *Governor) Propose(
	caller common.Address,
	targets []common.Address,
	values []uint256.Int,
	calldatas [][]byte,
	description string,
) (uint64, error) {
	if g.paused() {
		return 0, ErrPaused
	}
	if len(targets) == 0 ||
		len(targets) != len(values) ||
		len(targets) != len(calldatas) {
		return 0, ErrInvalidProposal
	}
	var id uint64
	err := g.env.Frame(func() error {
		if !g.state.proposalCost.IsZero() {
			cost := g.state.proposalCost
			if err := g.config.Token.TransferFrom(g.config.Address, caller, BurnAddress, &cost); err != nil {
				return err
			}
		}
		id = g.state.count + 1
		g.state.count = id
		block := g.env.BlockNumber()
		p := Proposal{
			ID:          id,
			Proposer:    caller,
			Actions:     make([]Action, len(targets)),
			Description: description,
			CreatedAt:   g.env.Now(),
			VoteStart:   block + g.state.votingDelay,
		}
		p.QuorumSupply.Set(g.config.Registry.TotalDelegated())
		p.VoteEnd = p.VoteStart + g.state.votingPeriod
		for i := range targets {
			p.Actions[i] = Action{
				Target: targets[i],
				Value:  values[i],
				Data:   bytes.Clone(calldatas[i]),
			}
		}
		g.state.proposals[id] = p
		g.env.Emit(ProposalCreatedEventType, ProposalCreatedEvent{Proposal: p.clone()})
		return nil
	})
	if err != nil {
		return 0, err
	}
	g.logger.Info(
		"proposal created",
		"id", id,
		"proposer", caller.Hex(),
		"actions", len(targets),
	)
	return id, nil
}

// Proposal returns a copy of the stored proposal
func (g *Governor) Proposal(id uint64) (Proposal, bool) {
	p, ok := g.state.proposals[id]
	if !ok {
		return Proposal{}, false
	}
	return p.clone(), true
}

func (g *Governor) ProposalCount() uint64 {
	return g.state.count
}

// State derives the lifecycle state of a proposal from its stored facts
// and the current clock
func (g *Governor) State(id uint64) (State, error) {
	p, ok := g.state.proposals[id]
	if !ok {
		return 0, ErrProposalNotFound
	}
	return g.derive(p), nil
}

func (g *Governor) derive(p Proposal) State {
	switch {
	case p.Canceled:
		return StateCanceled
	case p.Executed:
		return StateExecuted
	}
	block := g.env.BlockNumber()
	switch {
	case block < p.VoteStart:
		return StatePending
	case block <= p.VoteEnd:
		return StateActive
	}
	if p.Eta != 0 {
		if g.env.Now() > p.Eta+g.config.Timelock.GracePeriod() {
			return StateExpired
		}
		return StateQueued
	}
	if !g.quorumReached(p) || !voteSucceeded(p) {
		return StateDefeated
	}
	return StateSucceeded
}

// QuorumReached reports whether participation on a proposal meets quorum
// against the total delegated supply recorded at creation
func (g *Governor) QuorumReached(id uint64) (bool, error) {
	p, ok := g.state.proposals[id]
	if !ok {
		return false, ErrProposalNotFound
	}
	return g.quorumReached(p), nil
}

func (g *Governor) quorumReached(p Proposal) bool {
	total := &p.QuorumSupply
	if total.IsZero() {
		return false
	}
	participation := new(uint256.Int).Add(&p.ForVotes, &p.AgainstVotes)
	participation.Add(participation, &p.AbstainVotes)
	scaled, overflow := new(uint256.Int).MulDivOverflow(
		participation,
		uint256.NewInt(BasisPoints),
		total,
	)
	if overflow {
		return true
	}
	return scaled.Cmp(uint256.NewInt(g.state.quorumBps)) >= 0
}

// VoteSucceeded reports whether for votes strictly exceed against votes
func (g *Governor) VoteSucceeded(id uint64) (bool, error) {
	p, ok := g.state.proposals[id]
	if !ok {
		return false, ErrProposalNotFound
	}
	return voteSucceeded(p), nil
}

func voteSucceeded(p Proposal) bool {
	return p.ForVotes.Gt(&p.AgainstVotes)
}

// Cancel stops a proposal. The proposer may cancel any non-terminal
// proposal; the guardian may cancel pending, active, succeeded and queued
// proposals only. Timelock entries of a canceled queued proposal stay
// queued there until they expire, since only the governor can execute
// them and it refuses to once the proposal is canceled. The security
// council removes them with cancelTransactionByHash.
func (g *Governor) Cancel(caller common.Address, id uint64) error {
	p, ok := g.state.proposals[id]
	if !ok {
		return ErrProposalNotFound
	}
	isProposer := caller == p.Proposer
	isGuardian := g.state.guardian != (common.Address{}) && caller == g.state.guardian
	if !isProposer && !isGuardian {
		return ErrNotAuthorizedToCancel
	}
	st := g.derive(p)
	switch st {
	case StateExecuted, StateCanceled, StateExpired:
		return ErrInvalidProposalState
	case StateDefeated:
		if !isProposer {
			return ErrInvalidProposalState
		}
	}
	p.Canceled = true
	g.state.proposals[id] = p
	g.env.Emit(ProposalCanceledEventType, ProposalCanceledEvent{
		ID:       id,
		Canceler: caller,
		Previous: st,
	})
	g.logger.Info("proposal canceled", "id", id, "canceler", caller.Hex(), "state", st.String())
	return nil
}

// Queue forwards every action of a succeeded proposal to the timelock
func (g *Governor) Queue(caller common.Address, id uint64) error {
	if g.paused() {
		return ErrPaused
	}
	p, ok := g.state.proposals[id]
	if !ok {
		return ErrProposalNotFound
	}
	if g.derive(p) != StateSucceeded {
		return ErrInvalidProposalState
	}
	return g.guard.Run(func() error {
		return g.env.Frame(func() error {
			var eta uint64
			for _, a := range p.Actions {
				value := a.Value
				_, actionEta, err := g.config.Timelock.QueueTransaction(g.config.Address, a.Target, &value, a.Data)
				if err != nil {
					return err
				}
				eta = actionEta
			}
			p.Eta = eta
			g.state.proposals[id] = p
			g.env.Emit(ProposalQueuedEventType, ProposalQueuedEvent{
				ID:     id,
				Eta:    eta,
				Caller: caller,
			})
			g.logger.Info("proposal queued", "id", id, "eta", eta)
			return nil
		})
	})
}

// Execute performs every action of a queued proposal through the timelock
func (g *Governor) Execute(caller common.Address, id uint64) error {
	if g.paused() {
		return ErrPaused
	}
	p, ok := g.state.proposals[id]
	if !ok {
		return ErrProposalNotFound
	}
	if g.derive(p) != StateQueued {
		return ErrInvalidProposalState
	}
	return g.guard.Run(func() error {
		return g.env.Frame(func() error {
			p.Executed = true
			g.state.proposals[id] = p
			for _, a := range p.Actions {
				value := a.Value
				if _, err := g.config.Timelock.ExecuteTransaction(g.config.Address, a.Target, &value, a.Data, p.Eta); err != nil {
					return err
				}
			}
			g.env.Emit(ProposalExecutedEventType, ProposalExecutedEvent{
				ID:     id,
				Caller: caller,
			})
			g.logger.Info("proposal executed", "id", id)
			return nil
		})
	})
}
