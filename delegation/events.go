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

package delegation

import (
	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	DelegateRegisteredEventType      event.EventType = "delegation.delegate_registered"
	DelegateUpdatedEventType         event.EventType = "delegation.delegate_updated"
	DelegateDeactivatedEventType     event.EventType = "delegation.delegate_deactivated"
	DelegatedEventType               event.EventType = "delegation.delegated"
	UndelegatedEventType             event.EventType = "delegation.undelegated"
	RedelegatedEventType             event.EventType = "delegation.redelegated"
	DelegationChangedEventType       event.EventType = "delegation.changed"
	DelegationCapUpdatedEventType    event.EventType = "delegation.cap_updated"
	DelegationPeriodUpdatedEventType event.EventType = "delegation.period_updated"
	AutoExpiryUpdatedEventType       event.EventType = "delegation.auto_expiry_updated"
	OwnershipTransferredEventType    event.EventType = "delegation.ownership_transferred"
)

type DelegateRegisteredEvent struct {
	Delegate Delegate
}

type DelegateUpdatedEvent struct {
	Delegate Delegate
}

type DelegateDeactivatedEvent struct {
	Delegate common.Address
}

type DelegatedEvent struct {
	Owner     common.Address
	Delegate  common.Address
	Amount    uint256.Int
	Total     uint256.Int
	ExpiresAt uint64
}

type UndelegatedEvent struct {
	Owner     common.Address
	Delegate  common.Address
	Amount    uint256.Int
	Remaining uint256.Int
}

type RedelegatedEvent struct {
	Owner  common.Address
	From   common.Address
	To     common.Address
	Amount uint256.Int
}

// DelegationChangedEvent carries the full record after any change. A zero
// amount means the record was removed.
type DelegationChangedEvent struct {
	Delegation Delegation
}

type ParameterUpdatedEvent struct {
	Previous uint64
	Value    uint64
}

type OwnershipTransferredEvent struct {
	Previous common.Address
	Owner    common.Address
}
