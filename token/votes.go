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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Delegates returns the vote delegate chosen by account, or the zero address
func (t *Token) Delegates(account common.Address) common.Address {
	return t.state.delegates[account]
}

// Delegate points the caller's token-level voting weight at a delegate.
// Delegating to the zero address withdraws the weight.
func (t *Token) Delegate(caller common.Address, delegatee common.Address) error {
	prev := t.state.delegates[caller]
	if delegatee == (common.Address{}) {
		delete(t.state.delegates, caller)
	} else {
		t.state.delegates[caller] = delegatee
	}
	t.env.Emit(DelegateChangedEventType, DelegateChangedEvent{
		Delegator: caller,
		Previous:  prev,
		Delegate:  delegatee,
	})
	bal := t.state.balances[caller]
	t.moveVotes(prev, delegatee, &bal)
	return nil
}

// Votes returns the current token-level voting weight of account
func (t *Token) Votes(account common.Address) *uint256.Int {
	v := t.state.votes[account].Latest()
	return &v
}

// PastVotes returns the voting weight of account as of the end of a mined block
func (t *Token) PastVotes(account common.Address, block uint64) (*uint256.Int, error) {
	if block >= t.env.BlockNumber() {
		return nil, ErrFutureLookup
	}
	v := t.state.votes[account].At(block)
	return &v, nil
}

// PastTotalSupply returns the total supply as of the end of a mined block
func (t *Token) PastTotalSupply(block uint64) (*uint256.Int, error) {
	if block >= t.env.BlockNumber() {
		return nil, ErrFutureLookup
	}
	v := t.state.supply.At(block)
	return &v, nil
}

func (t *Token) moveVotes(src common.Address, dst common.Address, amount *uint256.Int) {
	if src == dst || amount.IsZero() {
		return
	}
	block := t.env.BlockNumber()
	if src != (common.Address{}) {
		prev := t.state.votes[src].Latest()
		next := prev
		next.Sub(&next, amount)
		t.state.votes[src] = t.state.votes[src].Push(block, next)
		t.emitVotesChanged(src, prev, next)
	}
	if dst != (common.Address{}) {
		prev := t.state.votes[dst].Latest()
		next := prev
		next.Add(&next, amount)
		t.state.votes[dst] = t.state.votes[dst].Push(block, next)
		t.emitVotesChanged(dst, prev, next)
	}
}

func (t *Token) emitVotesChanged(delegate common.Address, prev uint256.Int, next uint256.Int) {
	t.env.Emit(DelegateVotesChangedEventType, DelegateVotesChangedEvent{
		Delegate: delegate,
		Previous: prev,
		Votes:    next,
	})
}
