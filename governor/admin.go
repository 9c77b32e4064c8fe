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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (g *Governor) Owner() common.Address {
	return g.state.owner
}

func (g *Governor) Guardian() common.Address {
	return g.state.guardian
}

func (g *Governor) QuorumBps() uint64 {
	return g.state.quorumBps
}

func (g *Governor) ProposalCost() *uint256.Int {
	v := g.state.proposalCost
	return &v
}

func (g *Governor) VotingDelay() uint64 {
	return g.state.votingDelay
}

func (g *Governor) VotingPeriod() uint64 {
	return g.state.votingPeriod
}

func (g *Governor) SetQuorum(caller common.Address, bps uint64) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	if bps == 0 || bps > BasisPoints {
		return ErrInvalidQuorum
	}
	prev := g.state.quorumBps
	g.state.quorumBps = bps
	g.env.Emit(QuorumUpdatedEventType, ParameterUpdatedEvent{Previous: prev, Value: bps})
	return nil
}

func (g *Governor) SetProposalCreationCost(caller common.Address, cost *uint256.Int) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	prev := g.state.proposalCost
	g.state.proposalCost = *cost
	g.env.Emit(ProposalCostUpdatedEventType, ProposalCostUpdatedEvent{
		Previous: prev,
		Cost:     *cost,
	})
	return nil
}

// SetVotingDelay applies to proposals created after the change
func (g *Governor) SetVotingDelay(caller common.Address, blocks uint64) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	prev := g.state.votingDelay
	g.state.votingDelay = blocks
	g.env.Emit(VotingDelayUpdatedEventType, ParameterUpdatedEvent{Previous: prev, Value: blocks})
	return nil
}

// SetVotingPeriod applies to proposals created after the change
func (g *Governor) SetVotingPeriod(caller common.Address, blocks uint64) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	if blocks == 0 {
		return ErrInvalidVotingPeriod
	}
	prev := g.state.votingPeriod
	g.state.votingPeriod = blocks
	g.env.Emit(VotingPeriodUpdatedEventType, ParameterUpdatedEvent{Previous: prev, Value: blocks})
	return nil
}

// SetProposalGuardian replaces the guardian. The zero address disables
// guardian cancellation.
func (g *Governor) SetProposalGuardian(caller common.Address, guardian common.Address) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	prev := g.state.guardian
	g.state.guardian = guardian
	g.env.Emit(GuardianUpdatedEventType, AddressUpdatedEvent{Previous: prev, Current: guardian})
	return nil
}

func (g *Governor) TransferOwnership(caller common.Address, newOwner common.Address) error {
	if caller != g.state.owner {
		return ErrUnauthorized
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := g.state.owner
	g.state.owner = newOwner
	g.env.Emit(OwnershipTransferredEventType, AddressUpdatedEvent{Previous: prev, Current: newOwner})
	return nil
}
