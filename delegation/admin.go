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
	"github.com/ethereum/go-ethereum/common"
)

// DelegationCap returns the per-delegate cap in basis points of total supply
func (r *Registry) DelegationCap() uint64 {
	return r.state.cap
}

// DelegationPeriod returns the holding period in seconds
func (r *Registry) DelegationPeriod() uint64 {
	return r.state.period
}

// AutoExpiryPeriod returns the delegation lifetime in seconds, zero when disabled
func (r *Registry) AutoExpiryPeriod() uint64 {
	return r.state.autoExpiry
}

// SetDelegationCap applies to cap checks made after the change only
func (r *Registry) SetDelegationCap(caller common.Address, capBps uint64) error {
	if caller != r.state.owner {
		return ErrUnauthorized
	}
	if capBps == 0 || capBps > BasisPoints {
		return ErrInvalidCap
	}
	prev := r.state.cap
	r.state.cap = capBps
	r.env.Emit(DelegationCapUpdatedEventType, ParameterUpdatedEvent{
		Previous: prev,
		Value:    capBps,
	})
	return nil
}

func (r *Registry) SetDelegationPeriodRequirement(caller common.Address, seconds uint64) error {
	if caller != r.state.owner {
		return ErrUnauthorized
	}
	prev := r.state.period
	r.state.period = seconds
	r.env.Emit(DelegationPeriodUpdatedEventType, ParameterUpdatedEvent{
		Previous: prev,
		Value:    seconds,
	})
	return nil
}

// SetAutoExpiryPeriod sets the lifetime given to delegations made after the
// change. Zero disables expiry.
func (r *Registry) SetAutoExpiryPeriod(caller common.Address, seconds uint64) error {
	if caller != r.state.owner {
		return ErrUnauthorized
	}
	prev := r.state.autoExpiry
	r.state.autoExpiry = seconds
	r.env.Emit(AutoExpiryUpdatedEventType, ParameterUpdatedEvent{
		Previous: prev,
		Value:    seconds,
	})
	return nil
}

func (r *Registry) TransferOwnership(caller common.Address, newOwner common.Address) error {
	if caller != r.state.owner {
		return ErrUnauthorized
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := r.state.owner
	r.state.owner = newOwner
	r.env.Emit(OwnershipTransferredEventType, OwnershipTransferredEvent{
		Previous: prev,
		Owner:    newOwner,
	})
	return nil
}
