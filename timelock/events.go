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

package timelock

import (
	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
)

const (
	QueuedEventType          event.EventType = "timelock.queued"
	ExecutedEventType        event.EventType = "timelock.executed"
	CanceledEventType        event.EventType = "timelock.canceled"
	AdminUpdatedEventType    event.EventType = "timelock.admin_updated"
	GovernorUpdatedEventType event.EventType = "timelock.governor_updated"
	CouncilUpdatedEventType  event.EventType = "timelock.council_updated"
	DelayUpdatedEventType    event.EventType = "timelock.delay_updated"
)

type QueuedEvent struct {
	Entry Entry
}

type ExecutedEvent struct {
	Entry Entry
}

type CanceledEvent struct {
	Hash common.Hash
}

type RoleUpdatedEvent struct {
	Previous common.Address
	Current  common.Address
}

type DelayUpdatedEvent struct {
	Previous uint64
	Delay    uint64
}
