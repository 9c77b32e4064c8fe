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
	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	ProposalCreatedEventType      event.EventType = "governor.proposal_created"
	VoteCastEventType             event.EventType = "governor.vote_cast"
	ProposalCanceledEventType     event.EventType = "governor.proposal_canceled"
	ProposalQueuedEventType       event.EventType = "governor.proposal_queued"
	ProposalExecutedEventType     event.EventType = "governor.proposal_executed"
	QuorumUpdatedEventType        event.EventType = "governor.quorum_updated"
	ProposalCostUpdatedEventType  event.EventType = "governor.proposal_cost_updated"
	VotingDelayUpdatedEventType   event.EventType = "governor.voting_delay_updated"
	VotingPeriodUpdatedEventType  event.EventType = "governor.voting_period_updated"
	GuardianUpdatedEventType      event.EventType = "governor.guardian_updated"
	OwnershipTransferredEventType event.EventType = "governor.ownership_transferred"
)

type ProposalCreatedEvent struct {
	Proposal Proposal
}

type VoteCastEvent struct {
	ID      uint64
	Receipt VoteReceipt
}

type ProposalCanceledEvent struct {
	ID       uint64
	Canceler common.Address
	// Previous is the state the proposal was canceled from
	Previous State
}

type ProposalQueuedEvent struct {
	ID     uint64
	Eta    uint64
	Caller common.Address
}

type ProposalExecutedEvent struct {
	ID     uint64
	Caller common.Address
}

type ParameterUpdatedEvent struct {
	Previous uint64
	Value    uint64
}

type ProposalCostUpdatedEvent struct {
	Previous uint256.Int
	Cost     uint256.Int
}

type AddressUpdatedEvent struct {
	Previous common.Address
	Current  common.Address
}
