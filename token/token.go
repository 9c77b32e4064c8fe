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

// Package token implements the governance voting token: a balance ledger
// with minter-gated issuance throttled by an emission ratio, and
// checkpointed token-level vote delegation.
package token

import (
	"io"
	"log/slog"
	"maps"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const Decimals uint8 = 18

// RatioScale is the fixed-point scale of the emission ratio (100%)
var RatioScale = uint256.NewInt(1_000_000_000_000_000_000)

type Config struct {
	Address common.Address
	Owner   common.Address
	Name    string
	Symbol  string
	// EmissionRatio defaults to RatioScale when nil
	EmissionRatio *uint256.Int
	Logger        *slog.Logger
}

type Token struct {
	env     chain.Env
	config  Config
	logger  *slog.Logger
	methods *chain.Dispatcher
	state   *state
}

type state struct {
	owner         common.Address
	totalSupply   uint256.Int
	emissionRatio uint256.Int
	balances      map[common.Address]uint256.Int
	allowances    map[common.Address]map[common.Address]uint256.Int
	minters       map[common.Address]bool
	delegates     map[common.Address]common.Address
	votes         map[common.Address]chain.Checkpoints
	supply        chain.Checkpoints
}

func (s *state) clone() *state {
	ret := &state{
		owner:         s.owner,
		totalSupply:   s.totalSupply,
		emissionRatio: s.emissionRatio,
		balances:      maps.Clone(s.balances),
		allowances:    make(map[common.Address]map[common.Address]uint256.Int, len(s.allowances)),
		minters:       maps.Clone(s.minters),
		delegates:     maps.Clone(s.delegates),
		votes:         make(map[common.Address]chain.Checkpoints, len(s.votes)),
		supply:        s.supply.Clone(),
	}
	for k, v := range s.allowances {
		ret.allowances[k] = maps.Clone(v)
	}
	for k, v := range s.votes {
		ret.votes[k] = v.Clone()
	}
	return ret
}

func New(env chain.Env, cfg Config) (*Token, error) {
	if cfg.Address == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	ratio := *RatioScale
	if cfg.EmissionRatio != nil {
		if cfg.EmissionRatio.Gt(RatioScale) {
			return nil, ErrRatioOutOfRange
		}
		ratio = *cfg.EmissionRatio
	}
	t := &Token{
		env:    env,
		config: cfg,
		logger: cfg.Logger.With("component", "token"),
		state: &state{
			owner:         cfg.Owner,
			emissionRatio: ratio,
			balances:      make(map[common.Address]uint256.Int),
			allowances:    make(map[common.Address]map[common.Address]uint256.Int),
			minters:       make(map[common.Address]bool),
			delegates:     make(map[common.Address]common.Address),
			votes:         make(map[common.Address]chain.Checkpoints),
		},
	}
	t.registerMethods()
	return t, nil
}

func (t *Token) Address() common.Address {
	return t.config.Address
}

func (t *Token) Snapshot() any {
	return t.state.clone()
}

func (t *Token) Restore(snapshot any) {
	t.state = snapshot.(*state)
}

func (t *Token) Name() string {
	return t.config.Name
}

func (t *Token) Symbol() string {
	return t.config.Symbol
}

func (t *Token) Owner() common.Address {
	return t.state.owner
}

func (t *Token) TotalSupply() *uint256.Int {
	v := t.state.totalSupply
	return &v
}

func (t *Token) BalanceOf(account common.Address) *uint256.Int {
	v := t.state.balances[account]
	return &v
}

func (t *Token) Allowance(owner common.Address, spender common.Address) *uint256.Int {
	v := t.state.allowances[owner][spender]
	return &v
}

func (t *Token) IsMinter(account common.Address) bool {
	return t.state.minters[account]
}

func (t *Token) EmissionRatio() *uint256.Int {
	v := t.state.emissionRatio
	return &v
}

// Mint issues amount scaled by the emission ratio to the recipient. A mint
// whose scaled amount truncates to zero succeeds without effect.
func (t *Token) Mint(caller common.Address, to common.Address, amount *uint256.Int) error {
	if !t.state.minters[caller] {
		return ErrUnauthorized
	}
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}
	adjusted, overflow := new(uint256.Int).MulDivOverflow(amount, &t.state.emissionRatio, RatioScale)
	if overflow {
		return chain.ErrOverflow
	}
	if adjusted.IsZero() {
		return nil
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(&t.state.totalSupply, adjusted)
	if overflow {
		return chain.ErrOverflow
	}
	t.state.totalSupply = *newSupply
	t.state.supply = t.state.supply.Push(t.env.BlockNumber(), *newSupply)
	t.credit(to, adjusted)
	t.moveVotes(common.Address{}, t.state.delegates[to], adjusted)
	t.env.Emit(TransferEventType, TransferEvent{
		To:     to,
		Amount: *adjusted,
	})
	t.logger.Debug(
		"minted tokens",
		"to", to.Hex(),
		"requested", amount.Dec(),
		"minted", adjusted.Dec(),
	)
	return nil
}

func (t *Token) SetEmissionRatio(caller common.Address, ratio *uint256.Int) error {
	if caller != t.state.owner {
		return ErrUnauthorized
	}
	if ratio.Gt(RatioScale) {
		return ErrRatioOutOfRange
	}
	prev := t.state.emissionRatio
	t.state.emissionRatio = *ratio
	t.env.Emit(EmissionRatioUpdatedEventType, EmissionRatioUpdatedEvent{
		Previous: prev,
		Ratio:    *ratio,
	})
	return nil
}

func (t *Token) SetMinter(caller common.Address, minter common.Address, allowed bool) error {
	if caller != t.state.owner {
		return ErrUnauthorized
	}
	if minter == (common.Address{}) {
		return ErrZeroAddress
	}
	if allowed {
		t.state.minters[minter] = true
	} else {
		delete(t.state.minters, minter)
	}
	t.env.Emit(MinterUpdatedEventType, MinterUpdatedEvent{
		Minter:  minter,
		Allowed: allowed,
	})
	return nil
}

// TransferOwnership hands the owner capability to a new controller
func (t *Token) TransferOwnership(caller common.Address, newOwner common.Address) error {
	if caller != t.state.owner {
		return ErrUnauthorized
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	prev := t.state.owner
	t.state.owner = newOwner
	t.env.Emit(OwnershipTransferredEventType, OwnershipTransferredEvent{
		Previous: prev,
		Owner:    newOwner,
	})
	return nil
}

func (t *Token) Transfer(caller common.Address, to common.Address, amount *uint256.Int) error {
	return t.transfer(caller, to, amount)
}

func (t *Token) Approve(caller common.Address, spender common.Address, amount *uint256.Int) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	t.setAllowance(caller, spender, *amount)
	t.env.Emit(ApprovalEventType, ApprovalEvent{
		Owner:   caller,
		Spender: spender,
		Amount:  *amount,
	})
	return nil
}

// TransferFrom moves tokens on behalf of from, consuming caller's allowance
func (t *Token) TransferFrom(
	caller common.Address,
	from common.Address,
	to common.Address,
	amount *uint256.Int,
) error {
	allowance := t.state.allowances[from][caller]
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.transfer(from, to, amount); err != nil {
		return err
	}
	allowance.Sub(&allowance, amount)
	t.setAllowance(from, caller, allowance)
	return nil
}

func (t *Token) setAllowance(owner common.Address, spender common.Address, amount uint256.Int) {
	if _, ok := t.state.allowances[owner]; !ok {
		t.state.allowances[owner] = make(map[common.Address]uint256.Int)
	}
	t.state.allowances[owner][spender] = amount
}

func (t *Token) transfer(from common.Address, to common.Address, amount *uint256.Int) error {
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}
	bal := t.state.balances[from]
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	bal.Sub(&bal, amount)
	t.setBalance(from, bal)
	t.credit(to, amount)
	t.moveVotes(t.state.delegates[from], t.state.delegates[to], amount)
	t.env.Emit(TransferEventType, TransferEvent{
		From:   from,
		To:     to,
		Amount: *amount,
	})
	return nil
}

func (t *Token) credit(to common.Address, amount *uint256.Int) {
	bal := t.state.balances[to]
	bal.Add(&bal, amount)
	t.setBalance(to, bal)
}

func (t *Token) setBalance(account common.Address, bal uint256.Int) {
	if bal.IsZero() {
		delete(t.state.balances, account)
		return
	}
	t.state.balances[account] = bal
}
