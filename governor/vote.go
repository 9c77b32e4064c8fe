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

package governor

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	SupportAgainst uint8 = iota
	SupportFor
	SupportAbstain
)

type State uint8

const (
	StatePending State = iota
	StateActive
	StateCanceled
	StateDefeated
	StateSucceeded
	StateQueued
	StateExpired
	StateExecuted
)

var stateNames = map[State]string{
	StatePending:   "pending",
	StateActive:    "active",
	StateCanceled:  "canceled",
	StateDefeated:  "defeated",
	StateSucceeded: "succeeded",
	StateQueued:    "queued",
	StateExpired:   "expired",
	StateExecuted:  "executed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// States lists every proposal state in declaration order
func States() []State {
	return []State{
		StatePending,
		StateActive,
		StateCanceled,
		StateDefeated,
		StateSucceeded,
		StateQueued,
		StateExpired,
		StateExecuted,
	}
}

func (g *Governor) CastVote(caller common.Address, id uint64, support uint8) (*uint256.Int, error) {
	return g.CastVoteWithReason(caller, id, support, "")
}

// CastVoteWithReason records the caller's vote with their voting power at
// the time of the call
func (g *Governor) CastVoteWithReason(
	caller common.Address,
	id uint64,
	support uint8,
	reason string,
) (*uint256.Int, error) {
	if g.paused() {
		return nil, ErrPaused
	}
	if support > SupportAbstain {
		return nil, ErrInvalidVoteType
	}
	if !g.config.Registry.IsActiveDelegate(caller) {
		return nil, ErrNotDelegate
	}
	p, ok := g.state.proposals[id]
	if !ok {
		return nil, ErrProposalNotFound
	}
	if g.derive(p) != StateActive {
		return nil, ErrInvalidProposalState
	}
	key := voteKey{id: id, voter: caller}
	if _, ok := g.state.receipts[key]; ok {
		return nil, ErrAlreadyVoted
	}
	weight := g.config.Registry.VotingPower(caller)
	if weight.IsZero() {
		return nil, ErrDelegationNotMature
	}
	switch support {
	case SupportAgainst:
		p.AgainstVotes.Add(&p.AgainstVotes, weight)
	case SupportFor:
		p.ForVotes.Add(&p.ForVotes, weight)
	case SupportAbstain:
		p.AbstainVotes.Add(&p.AbstainVotes, weight)
	}
	g.state.proposals[id] = p
	receipt := VoteReceipt{
		Voter:   caller,
		Support: support,
		Weight:  *weight,
		Reason:  reason,
	}
	g.state.receipts[key] = receipt
	g.state.voters[id] = append(g.state.voters[id], caller)
	g.env.Emit(VoteCastEventType, VoteCastEvent{
		ID:      id,
		Receipt: receipt,
	})
	g.logger.Debug(
		"vote cast",
		"id", id,
		"voter", caller.Hex(),
		"support", support,
		"weight", weight.Dec(),
	)
	return new(uint256.Int).Set(weight), nil
}

// Receipt returns the vote of voter on proposal id
func (g *Governor) Receipt(id uint64, voter common.Address) (VoteReceipt, bool) {
	r, ok := g.state.receipts[voteKey{id: id, voter: voter}]
	return r, ok
}

// Votes returns the receipts of a proposal in the order they were cast
func (g *Governor) Votes(id uint64) []VoteReceipt {
	voters := g.state.voters[id]
	ret := make([]VoteReceipt, 0, len(voters))
	for _, v := range voters {
		ret = append(ret, g.state.receipts[voteKey{id: id, voter: v}])
	}
	return ret
}
