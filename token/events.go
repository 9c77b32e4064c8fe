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

package token

import (
	"github.com/blinklabs-io/govern/event"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	TransferEventType             event.EventType = "token.transfer"
	ApprovalEventType             event.EventType = "token.approval"
	MinterUpdatedEventType        event.EventType = "token.minter_updated"
	EmissionRatioUpdatedEventType event.EventType = "token.emission_ratio_updated"
	DelegateChangedEventType      event.EventType = "token.delegate_changed"
	DelegateVotesChangedEventType event.EventType = "token.delegate_votes_changed"
	OwnershipTransferredEventType event.EventType = "token.ownership_transferred"
)

// TransferEvent is emitted for transfers and mints. A mint has a zero From.
type TransferEvent struct {
	From   common.Address
	To     common.Address
	Amount uint256.Int
}

type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Amount  uint256.Int
}

type MinterUpdatedEvent struct {
	Minter  common.Address
	Allowed bool
}

type EmissionRatioUpdatedEvent struct {
	Previous uint256.Int
	Ratio    uint256.Int
}

type DelegateChangedEvent struct {
	Delegator common.Address
	Previous  common.Address
	Delegate  common.Address
}

type DelegateVotesChangedEvent struct {
	Delegate common.Address
	Previous uint256.Int
	Votes    uint256.Int
}

type OwnershipTransferredEvent struct {
	Previous common.Address
	Owner    common.Address
}
