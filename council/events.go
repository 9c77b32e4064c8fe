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

package council

import (
	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
)

const (
	MemberAddedEventType      event.EventType = "council.member_added"
	MemberRemovedEventType    event.EventType = "council.member_removed"
	ThresholdUpdatedEventType event.EventType = "council.threshold_updated"
	ActionProposedEventType   event.EventType = "council.action_proposed"
	ActionApprovedEventType   event.EventType = "council.action_approved"
	ActionExecutedEventType   event.EventType = "council.action_executed"
	ActionCanceledEventType   event.EventType = "council.action_canceled"
	PausedEventType           event.EventType = "council.paused"
	UnpausedEventType         event.EventType = "council.unpaused"
	DAOUpdatedEventType       event.EventType = "council.dao_updated"
)

type MemberAddedEvent struct {
	Member Member
}

type MemberRemovedEvent struct {
	Member common.Address
}

type ThresholdUpdatedEvent struct {
	Previous  int
	Threshold int
}

type ActionProposedEvent struct {
	Action Action
}

type ActionApprovedEvent struct {
	ID        uint64
	Approver  common.Address
	Approvals int
}

type ActionExecutedEvent struct {
	ID       uint64
	Executor common.Address
}

type ActionCanceledEvent struct {
	ID       uint64
	Canceler common.Address
}

type PauseEvent struct {
	ActionID uint64
}

type DAOUpdatedEvent struct {
	Previous common.Address
	DAO      common.Address
}
