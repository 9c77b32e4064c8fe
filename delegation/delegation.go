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
	"fmt"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Delegate moves amount of the caller's tokens into escrow with the given
// delegate. The caller must have approved the registry for amount.
// Topping up an existing delegation restarts its holding period.
func (r *Registry) Delegate(caller common.Address, delegate common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if delegate == (common.Address{}) {
		return ErrZeroAddress
	}
	if !r.IsActiveDelegate(delegate) {
		return ErrDelegateInactive
	}
	return r.guard.Run(func() error {
		return r.env.Frame(func() error {
			rec, err := r.credit(caller, delegate, amount)
			if err != nil {
				return err
			}
			if err := r.config.Token.TransferFrom(r.config.Address, caller, r.config.Address, amount); err != nil {
				return fmt.Errorf("escrow delegated tokens: %w", err)
			}
			r.env.Emit(DelegatedEventType, DelegatedEvent{
				Owner:     caller,
				Delegate:  delegate,
				Amount:    *amount,
				Total:     rec.Amount,
				ExpiresAt: rec.ExpiresAt,
			})
			return nil
		})
	})
}

// Undelegate returns amount of the caller's escrowed tokens. A delegation
// reduced to zero is removed, so a later delegation starts a new holding period.
func (r *Registry) Undelegate(caller common.Address, delegate common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	return r.guard.Run(func() error {
		return r.env.Frame(func() error {
			remaining, err := r.debit(caller, delegate, amount)
			if err != nil {
				return err
			}
			if err := r.config.Token.Transfer(r.config.Address, caller, amount); err != nil {
				return fmt.Errorf("release escrowed tokens: %w", err)
			}
			r.env.Emit(UndelegatedEventType, UndelegatedEvent{
				Owner:     caller,
				Delegate:  delegate,
				Amount:    *amount,
				Remaining: remaining,
			})
			return nil
		})
	})
}

// Redelegate moves escrowed tokens between delegates without leaving escrow
func (r *Registry) Redelegate(caller common.Address, from common.Address, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if to == caller {
		return ErrSelfDelegationNotAllowed
	}
	if !r.IsActiveDelegate(to) {
		return ErrDelegateInactive
	}
	return r.guard.Run(func() error {
		return r.env.Frame(func() error {
			if _, err := r.debit(caller, from, amount); err != nil {
				return err
			}
			if _, err := r.credit(caller, to, amount); err != nil {
				return err
			}
			r.env.Emit(RedelegatedEventType, RedelegatedEvent{
				Owner:  caller,
				From:   from,
				To:     to,
				Amount: *amount,
			})
			return nil
		})
	})
}

func (r *Registry) credit(owner common.Address, delegate common.Address, amount *uint256.Int) (Delegation, error) {
	totalTo := r.state.totalTo[delegate]
	newTotal, overflow := new(uint256.Int).AddOverflow(&totalTo, amount)
	if overflow {
		return Delegation{}, chain.ErrOverflow
	}
	limit, overflow := new(uint256.Int).MulDivOverflow(
		r.config.Token.TotalSupply(),
		uint256.NewInt(r.state.cap),
		uint256.NewInt(BasisPoints),
	)
	if overflow {
		return Delegation{}, chain.ErrOverflow
	}
	if newTotal.Gt(limit) {
		return Delegation{}, ErrCapExceeded
	}
	now := r.env.Now()
	key := delegationKey{owner: owner, delegate: delegate}
	rec, ok := r.state.delegations[key]
	if !ok {
		rec = Delegation{Owner: owner, Delegate: delegate}
	}
	if !r.state.delegatorSeen[key] {
		r.state.delegatorSeen[key] = true
		r.state.delegators[delegate] = append(r.state.delegators[delegate], owner)
	}
	rec.Amount.Add(&rec.Amount, amount)
	rec.DelegatedAt = now
	rec.ExpiresAt = 0
	if r.state.autoExpiry > 0 {
		rec.ExpiresAt = now + r.state.autoExpiry
	}
	r.state.delegations[key] = rec
	r.state.totalTo[delegate] = *newTotal
	totalBy := r.state.totalBy[owner]
	totalBy.Add(&totalBy, amount)
	r.state.totalBy[owner] = totalBy
	r.state.totalDelegated.Add(&r.state.totalDelegated, amount)
	r.checkpoint(delegate, *newTotal)
	r.emitChanged(rec)
	return rec, nil
}

func (r *Registry) debit(owner common.Address, delegate common.Address, amount *uint256.Int) (uint256.Int, error) {
	key := delegationKey{owner: owner, delegate: delegate}
	rec, ok := r.state.delegations[key]
	if !ok || rec.Amount.Lt(amount) {
		return uint256.Int{}, ErrInsufficientDelegation
	}
	rec.Amount.Sub(&rec.Amount, amount)
	if rec.Amount.IsZero() {
		delete(r.state.delegations, key)
	} else {
		r.state.delegations[key] = rec
	}
	totalTo := r.state.totalTo[delegate]
	totalTo.Sub(&totalTo, amount)
	setOrDelete(r.state.totalTo, delegate, totalTo)
	totalBy := r.state.totalBy[owner]
	totalBy.Sub(&totalBy, amount)
	setOrDelete(r.state.totalBy, owner, totalBy)
	r.state.totalDelegated.Sub(&r.state.totalDelegated, amount)
	r.checkpoint(delegate, totalTo)
	r.emitChanged(rec)
	return rec.Amount, nil
}

func setOrDelete(m map[common.Address]uint256.Int, key common.Address, v uint256.Int) {
	if v.IsZero() {
		delete(m, key)
		return
	}
	m[key] = v
}

func (r *Registry) checkpoint(delegate common.Address, total uint256.Int) {
	r.state.checkpoints[delegate] = r.state.checkpoints[delegate].Push(r.env.BlockNumber(), total)
}

func (r *Registry) emitChanged(rec Delegation) {
	r.env.Emit(DelegationChangedEventType, DelegationChangedEvent{Delegation: rec})
}

// Delegation returns the record for an (owner, delegate) pair. A zero
// amount record does not exist.
func (r *Registry) Delegation(owner common.Address, delegate common.Address) (Delegation, bool) {
	rec, ok := r.state.delegations[delegationKey{owner: owner, delegate: delegate}]
	return rec, ok
}

// DelegationsTo returns the live delegations held by a delegate in the
// order their owners first delegated
func (r *Registry) DelegationsTo(delegate common.Address) []Delegation {
	owners := r.state.delegators[delegate]
	ret := make([]Delegation, 0, len(owners))
	for _, owner := range owners {
		if rec, ok := r.state.delegations[delegationKey{owner: owner, delegate: delegate}]; ok {
			ret = append(ret, rec)
		}
	}
	return ret
}

// DelegatorsOf returns the owners with a live delegation to delegate
func (r *Registry) DelegatorsOf(delegate common.Address) []common.Address {
	recs := r.DelegationsTo(delegate)
	ret := make([]common.Address, len(recs))
	for i, rec := range recs {
		ret[i] = rec.Owner
	}
	return ret
}

func (r *Registry) TotalDelegatedTo(delegate common.Address) *uint256.Int {
	v := r.state.totalTo[delegate]
	return &v
}

func (r *Registry) TotalDelegatedBy(owner common.Address) *uint256.Int {
	v := r.state.totalBy[owner]
	return &v
}

// TotalDelegated is the sum of all escrowed delegations
func (r *Registry) TotalDelegated() *uint256.Int {
	v := r.state.totalDelegated
	return &v
}

// PastTotalDelegatedTo returns the amount delegated to a delegate as of the end of a mined block
func (r *Registry) PastTotalDelegatedTo(delegate common.Address, block uint64) (*uint256.Int, error) {
	if block >= r.env.BlockNumber() {
		return nil, ErrFutureLookup
	}
	v := r.state.checkpoints[delegate].At(block)
	return &v, nil
}

// VotingPower is the sum of a delegate's delegations that have been held
// for at least the delegation period and have not expired, evaluated at
// the current block time
func (r *Registry) VotingPower(delegate common.Address) *uint256.Int {
	now := r.env.Now()
	power := new(uint256.Int)
	for _, rec := range r.DelegationsTo(delegate) {
		if !r.counts(rec, now) {
			continue
		}
		power.Add(power, &rec.Amount)
	}
	return power
}

func (r *Registry) counts(rec Delegation, now uint64) bool {
	if rec.DelegatedAt+r.state.period > now {
		return false
	}
	if rec.ExpiresAt != 0 && rec.ExpiresAt <= now {
		return false
	}
	return true
}
