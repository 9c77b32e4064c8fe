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
	"github.com/ethereum/go-ethereum/common"
)

func (t *Timelock) SetAdmin(caller common.Address, admin common.Address) error {
	if caller != t.state.admin {
		return ErrNotAdmin
	}
	if admin == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := t.state.admin
	t.state.admin = admin
	t.env.Emit(AdminUpdatedEventType, RoleUpdatedEvent{Previous: prev, Current: admin})
	return nil
}

func (t *Timelock) SetGovernor(caller common.Address, governor common.Address) error {
	if caller != t.state.admin {
		return ErrNotAdmin
	}
	if governor == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := t.state.governor
	t.state.governor = governor
	t.env.Emit(GovernorUpdatedEventType, RoleUpdatedEvent{Previous: prev, Current: governor})
	return nil
}

func (t *Timelock) SetSecurityCouncil(caller common.Address, council common.Address) error {
	if caller != t.state.admin {
		return ErrNotAdmin
	}
	if council == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := t.state.council
	t.state.council = council
	t.env.Emit(CouncilUpdatedEventType, RoleUpdatedEvent{Previous: prev, Current: council})
	return nil
}

// SetDelay changes the delay applied to transactions queued afterwards.
// Existing entries keep their eta.
func (t *Timelock) SetDelay(caller common.Address, seconds uint64) error {
	if caller != t.state.admin {
		return ErrNotAdmin
	}
	if err := validateDelay(seconds); err != nil {
		return err
	}
	prev := t.state.delay
	t.state.delay = seconds
	t.env.Emit(DelayUpdatedEventType, DelayUpdatedEvent{Previous: prev, Delay: seconds})
	return nil
}
