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

package governor_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
)

var (
	tokenAddr    = common.HexToAddress("0x7000000000000000000000000000000000000001")
	registryAddr = common.HexToAddress("0x7000000000000000000000000000000000000002")
	timelockAddr = common.HexToAddress("0x7000000000000000000000000000000000000003")
	governorAddr = common.HexToAddress("0x7000000000000000000000000000000000000004")
	deployer     = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	guardian     = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	alice        = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	bob          = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	carol        = common.HexToAddress("0x0000000000000000000000000000000000000a05")
	dave         = common.HexToAddress("0x0000000000000000000000000000000000000a06")
	stranger     = common.HexToAddress("0x0000000000000000000000000000000000000a07")
)

const (
	votingDelay  = 1
	votingPeriod = 10
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

type fixture struct {
	rt  *chain.Runtime
	clk *chain.ManualClock
	tok *token.Token
	reg *delegation.Registry
	tl  *timelock.Timelock
	gov *governor.Governor
}

type pauseSwitch bool

func (p *pauseSwitch) Paused() bool { return bool(*p) }

func setup(t *testing.T, cost uint64) *fixture {
	t.Helper()
	clk := chain.NewManualClock(100, 1_700_000_000)
	rt := chain.NewRuntime(chain.RuntimeConfig{Clock: clk})
	tok, err := token.New(rt, token.Config{Address: tokenAddr, Owner: deployer, Name: "Governance", Symbol: "GOV"})
	require.NoError(t, err)
	reg, err := delegation.New(rt, delegation.Config{
		Address:       registryAddr,
		Owner:         timelockAddr,
		Token:         tok,
		DelegationCap: delegation.BasisPoints,
	})
	require.NoError(t, err)
	tl, err := timelock.New(rt, timelock.Config{
		Address:         timelockAddr,
		Admin:           deployer,
		Governor:        governorAddr,
		SecurityCouncil: deployer,
		Delay:           2 * 24 * time.Hour,
	})
	require.NoError(t, err)
	gov, err := governor.New(rt, governor.Config{
		Address:      governorAddr,
		Owner:        deployer,
		Token:        tok,
		Registry:     reg,
		Timelock:     tl,
		Guardian:     guardian,
		QuorumBps:    400,
		ProposalCost: u(cost),
		VotingDelay:  votingDelay,
		VotingPeriod: votingPeriod,
	})
	require.NoError(t, err)
	for _, c := range []chain.Contract{tok, reg, tl, gov} {
		require.NoError(t, rt.Register(c))
	}
	require.NoError(t, tok.SetMinter(deployer, deployer, true))
	require.NoError(t, tok.Mint(deployer, alice, u(10_000)))
	require.NoError(t, tok.Mint(deployer, carol, u(10_000)))
	require.NoError(t, reg.RegisterDelegate(bob, "bob", "", ""))
	require.NoError(t, reg.RegisterDelegate(dave, "dave", "", ""))
	require.NoError(t, tok.Approve(alice, registryAddr, u(1000)))
	require.NoError(t, reg.Delegate(alice, bob, u(1000)))
	require.NoError(t, tok.Approve(carol, registryAddr, u(600)))
	require.NoError(t, reg.Delegate(carol, dave, u(600)))
	clk.Advance(8 * 24 * time.Hour)
	return &fixture{rt: rt, clk: clk, tok: tok, reg: reg, tl: tl, gov: gov}
}

// capProposal returns a proposal that sets the registry cap through the timelock
func capProposal(t *testing.T, capBps int64) ([]common.Address, []uint256.Int, [][]byte) {
	t.Helper()
	data, err := chain.EncodeCall("setDelegationCap(uint256)", big.NewInt(capBps))
	require.NoError(t, err)
	return []common.Address{registryAddr}, []uint256.Int{{}}, [][]byte{data}
}

func (f *fixture) propose(t *testing.T) uint64 {
	t.Helper()
	targets, values, calldatas := capProposal(t, 2500)
	id, err := f.gov.Propose(alice, targets, values, calldatas, "raise cap")
	require.NoError(t, err)
	return id
}

func (f *fixture) state(t *testing.T, id uint64) governor.State {
	t.Helper()
	st, err := f.gov.State(id)
	require.NoError(t, err)
	return st
}

// decided proposes, has bob vote with support and mines past the voting window
func (f *fixture) decided(t *testing.T, support uint8) uint64 {
	t.Helper()
	id := f.propose(t)
	f.clk.Mine(votingDelay)
	_, err := f.gov.CastVote(bob, id, support)
	require.NoError(t, err)
	f.clk.Mine(votingPeriod + 1)
	return id
}

func TestProposeBurnsCreationCost(t *testing.T) {
	f := setup(t, 100)
	targets, values, calldatas := capProposal(t, 2500)
	_, err := f.gov.Propose(alice, targets, values, calldatas, "no allowance")
	require.ErrorIs(t, err, token.ErrInsufficientAllowance)
	assert.Equal(t, uint64(0), f.gov.ProposalCount())

	before := f.tok.BalanceOf(alice)
	require.NoError(t, f.tok.Approve(alice, governorAddr, u(100)))
	id, err := f.gov.Propose(alice, targets, values, calldatas, "raise cap")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, new(uint256.Int).Sub(before, u(100)), f.tok.BalanceOf(alice))
	assert.Equal(t, u(100), f.tok.BalanceOf(governor.BurnAddress))

	p, ok := f.gov.Proposal(id)
	require.True(t, ok)
	assert.Equal(t, alice, p.Proposer)
	assert.Equal(t, f.clk.BlockNumber()+votingDelay, p.VoteStart)
	assert.Equal(t, p.VoteStart+votingPeriod, p.VoteEnd)
	assert.Equal(t, governor.StatePending, f.state(t, id))
}

func TestProposeValidation(t *testing.T) {
	f := setup(t, 0)
	_, err := f.gov.Propose(alice, nil, nil, nil, "empty")
	require.ErrorIs(t, err, governor.ErrInvalidProposal)
	_, err = f.gov.Propose(alice, []common.Address{registryAddr}, nil, [][]byte{{}}, "mismatch")
	require.ErrorIs(t, err, governor.ErrInvalidProposal)
	_, err = f.gov.State(42)
	require.ErrorIs(t, err, governor.ErrProposalNotFound)
}

func TestCastVoteRejectsDoubleVote(t *testing.T) {
	f := setup(t, 0)
	id := f.propose(t)
	f.clk.Mine(votingDelay)
	weight, err := f.gov.CastVote(bob, id, governor.SupportFor)
	require.NoError(t, err)
	assert.Equal(t, u(1000), weight)
	_, err = f.gov.CastVote(bob, id, governor.SupportAgainst)
	require.ErrorIs(t, err, governor.ErrAlreadyVoted)

	p, _ := f.gov.Proposal(id)
	assert.Equal(t, *u(1000), p.ForVotes)
	assert.True(t, p.AgainstVotes.IsZero())
	receipt, ok := f.gov.Receipt(id, bob)
	require.True(t, ok)
	assert.Equal(t, governor.SupportFor, receipt.Support)
	assert.Len(t, f.gov.Votes(id), 1)
}

func TestCastVoteValidation(t *testing.T) {
	f := setup(t, 0)
	id := f.propose(t)
	_, err := f.gov.CastVote(bob, id, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrInvalidProposalState)
	f.clk.Mine(votingDelay)
	_, err = f.gov.CastVote(alice, id, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrNotDelegate)
	_, err = f.gov.CastVote(bob, id, 3)
	require.ErrorIs(t, err, governor.ErrInvalidVoteType)
	_, err = f.gov.CastVote(bob, 99, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrProposalNotFound)

	require.NoError(t, f.reg.RegisterDelegate(stranger, "new", "", ""))
	_, err = f.gov.CastVote(stranger, id, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrDelegationNotMature)

	_, err = f.gov.CastVoteWithReason(dave, id, governor.SupportAbstain, "undecided")
	require.NoError(t, err)
	receipt, _ := f.gov.Receipt(id, dave)
	assert.Equal(t, "undecided", receipt.Reason)

	f.clk.Mine(votingPeriod + 1)
	_, err = f.gov.CastVote(bob, id, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrInvalidProposalState)
}

func TestOutcome(t *testing.T) {
	t.Run("succeeded", func(t *testing.T) {
		f := setup(t, 0)
		id := f.decided(t, governor.SupportFor)
		assert.Equal(t, governor.StateSucceeded, f.state(t, id))
	})
	t.Run("defeated by majority", func(t *testing.T) {
		f := setup(t, 0)
		id := f.decided(t, governor.SupportAgainst)
		assert.Equal(t, governor.StateDefeated, f.state(t, id))
	})
	t.Run("tie is defeated", func(t *testing.T) {
		f := setup(t, 0)
		require.NoError(t, f.tok.Approve(carol, registryAddr, u(400)))
		require.NoError(t, f.reg.Delegate(carol, dave, u(400)))
		f.clk.Advance(8 * 24 * time.Hour)
		id := f.propose(t)
		f.clk.Mine(votingDelay)
		_, err := f.gov.CastVote(bob, id, governor.SupportFor)
		require.NoError(t, err)
		_, err = f.gov.CastVote(dave, id, governor.SupportAgainst)
		require.NoError(t, err)
		f.clk.Mine(votingPeriod + 1)
		assert.Equal(t, governor.StateDefeated, f.state(t, id))
	})
	t.Run("no quorum", func(t *testing.T) {
		f := setup(t, 0)
		require.NoError(t, f.gov.SetQuorum(deployer, 7000))
		id := f.decided(t, governor.SupportFor)
		// 1000 of 1600 delegated is 62.5%
		reached, err := f.gov.QuorumReached(id)
		require.NoError(t, err)
		assert.False(t, reached)
		succeeded, err := f.gov.VoteSucceeded(id)
		require.NoError(t, err)
		assert.True(t, succeeded)
		assert.Equal(t, governor.StateDefeated, f.state(t, id))
	})
}

func TestLifecycleThroughTimelock(t *testing.T) {
	f := setup(t, 0)
	id := f.decided(t, governor.SupportFor)
	require.ErrorIs(t, f.gov.Execute(stranger, id), governor.ErrInvalidProposalState)
	require.NoError(t, f.gov.Queue(stranger, id))
	assert.Equal(t, governor.StateQueued, f.state(t, id))
	require.ErrorIs(t, f.gov.Queue(stranger, id), governor.ErrInvalidProposalState)

	p, _ := f.gov.Proposal(id)
	assert.Equal(t, f.clk.Now()+f.tl.Delay(), p.Eta)
	hash := timelock.HashTransaction(p.Actions[0].Target, &p.Actions[0].Value, p.Actions[0].Data, p.Eta)
	assert.Equal(t, timelock.StatusQueued, f.tl.Status(hash))

	require.ErrorIs(t, f.gov.Execute(stranger, id), timelock.ErrNotYetDue)
	assert.Equal(t, governor.StateQueued, f.state(t, id))

	f.clk.Advance(2 * 24 * time.Hour)
	require.NoError(t, f.gov.Execute(stranger, id))
	assert.Equal(t, governor.StateExecuted, f.state(t, id))
	assert.Equal(t, uint64(2500), f.reg.DelegationCap())
	assert.Equal(t, timelock.StatusExecuted, f.tl.Status(hash))
}

func TestQueuedProposalExpires(t *testing.T) {
	f := setup(t, 0)
	id := f.decided(t, governor.SupportFor)
	require.NoError(t, f.gov.Queue(stranger, id))
	f.clk.Advance(2*24*time.Hour + timelock.GracePeriod + time.Second)
	assert.Equal(t, governor.StateExpired, f.state(t, id))
	require.ErrorIs(t, f.gov.Execute(stranger, id), governor.ErrInvalidProposalState)
}

func TestOutcomeFixedAfterVoting(t *testing.T) {
	t.Run("late delegation keeps queued proposal executable", func(t *testing.T) {
		f := setup(t, 0)
		id := f.decided(t, governor.SupportFor)
		require.NoError(t, f.gov.Queue(stranger, id))
		require.NoError(t, f.tok.Mint(deployer, carol, u(100_000)))
		require.NoError(t, f.tok.Approve(carol, registryAddr, u(100_000)))
		require.NoError(t, f.reg.Delegate(carol, dave, u(100_000)))
		assert.Equal(t, governor.StateQueued, f.state(t, id))
		reached, err := f.gov.QuorumReached(id)
		require.NoError(t, err)
		assert.True(t, reached)
		f.clk.Advance(2 * 24 * time.Hour)
		require.NoError(t, f.gov.Execute(stranger, id))
		assert.Equal(t, governor.StateExecuted, f.state(t, id))
	})
	t.Run("guardian cancels queued proposal after late delegation", func(t *testing.T) {
		f := setup(t, 0)
		id := f.decided(t, governor.SupportFor)
		require.NoError(t, f.gov.Queue(stranger, id))
		require.NoError(t, f.tok.Mint(deployer, carol, u(100_000)))
		require.NoError(t, f.tok.Approve(carol, registryAddr, u(100_000)))
		require.NoError(t, f.reg.Delegate(carol, dave, u(100_000)))
		require.NoError(t, f.gov.Cancel(guardian, id))
		assert.Equal(t, governor.StateCanceled, f.state(t, id))
	})
	t.Run("late undelegation does not revive defeated proposal", func(t *testing.T) {
		f := setup(t, 0)
		require.NoError(t, f.gov.SetQuorum(deployer, 7000))
		id := f.decided(t, governor.SupportFor)
		assert.Equal(t, governor.StateDefeated, f.state(t, id))
		// only bob's 1000 would remain delegated
		require.NoError(t, f.reg.Undelegate(carol, dave, u(600)))
		assert.Equal(t, governor.StateDefeated, f.state(t, id))
		require.ErrorIs(t, f.gov.Queue(stranger, id), governor.ErrInvalidProposalState)
		p, _ := f.gov.Proposal(id)
		assert.Equal(t, *u(1600), p.QuorumSupply)
	})
}

func TestCanceledQueuedProposalLeavesTimelockEntry(t *testing.T) {
	f := setup(t, 0)
	id := f.decided(t, governor.SupportFor)
	require.NoError(t, f.gov.Queue(stranger, id))
	p, _ := f.gov.Proposal(id)
	hash := timelock.HashTransaction(p.Actions[0].Target, &p.Actions[0].Value, p.Actions[0].Data, p.Eta)
	require.NoError(t, f.gov.Cancel(guardian, id))

	f.clk.Advance(2 * 24 * time.Hour)
	assert.Equal(t, timelock.StatusReady, f.tl.Status(hash))
	require.ErrorIs(t, f.gov.Execute(stranger, id), governor.ErrInvalidProposalState)
	assert.Equal(t, uint64(delegation.BasisPoints), f.reg.DelegationCap())

	// the security council clears the entry
	require.NoError(t, f.tl.CancelTransactionByHash(deployer, hash))
	assert.Equal(t, timelock.StatusCanceled, f.tl.Status(hash))
}

func TestCancelAuthority(t *testing.T) {
	tests := []struct {
		name   string
		caller common.Address
		state  governor.State
		err    error
	}{
		{name: "proposer pending", caller: alice, state: governor.StatePending},
		{name: "guardian pending", caller: guardian, state: governor.StatePending},
		{name: "guardian active", caller: guardian, state: governor.StateActive},
		{name: "guardian succeeded", caller: guardian, state: governor.StateSucceeded},
		{name: "guardian queued", caller: guardian, state: governor.StateQueued},
		{name: "proposer defeated", caller: alice, state: governor.StateDefeated},
		{name: "guardian defeated", caller: guardian, state: governor.StateDefeated, err: governor.ErrInvalidProposalState},
		{name: "guardian expired", caller: guardian, state: governor.StateExpired, err: governor.ErrInvalidProposalState},
		{name: "proposer expired", caller: alice, state: governor.StateExpired, err: governor.ErrInvalidProposalState},
		{name: "proposer executed", caller: alice, state: governor.StateExecuted, err: governor.ErrInvalidProposalState},
		{name: "stranger", caller: stranger, state: governor.StateActive, err: governor.ErrNotAuthorizedToCancel},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := setup(t, 0)
			id := f.reach(t, test.state)
			require.Equal(t, test.state, f.state(t, id))
			err := f.gov.Cancel(test.caller, id)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				assert.Equal(t, test.state, f.state(t, id))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, governor.StateCanceled, f.state(t, id))
			require.ErrorIs(t, f.gov.Cancel(alice, id), governor.ErrInvalidProposalState)
		})
	}
}

// reach drives a fresh proposal into the requested state
func (f *fixture) reach(t *testing.T, st governor.State) uint64 {
	t.Helper()
	switch st {
	case governor.StatePending:
		return f.propose(t)
	case governor.StateActive:
		id := f.propose(t)
		f.clk.Mine(votingDelay)
		return id
	case governor.StateDefeated:
		return f.decided(t, governor.SupportAgainst)
	case governor.StateSucceeded:
		return f.decided(t, governor.SupportFor)
	}
	id := f.decided(t, governor.SupportFor)
	require.NoError(t, f.gov.Queue(stranger, id))
	switch st {
	case governor.StateExpired:
		f.clk.Advance(2*24*time.Hour + timelock.GracePeriod + time.Second)
	case governor.StateExecuted:
		f.clk.Advance(2 * 24 * time.Hour)
		require.NoError(t, f.gov.Execute(stranger, id))
	}
	return id
}

func TestPauseBlocksGovernance(t *testing.T) {
	f := setup(t, 0)
	id := f.propose(t)
	paused := pauseSwitch(true)
	f.gov.SetPauser(&paused)
	targets, values, calldatas := capProposal(t, 2000)
	_, err := f.gov.Propose(alice, targets, values, calldatas, "paused")
	require.ErrorIs(t, err, governor.ErrPaused)
	f.clk.Mine(votingDelay)
	_, err = f.gov.CastVote(bob, id, governor.SupportFor)
	require.ErrorIs(t, err, governor.ErrPaused)
	require.ErrorIs(t, f.gov.Queue(bob, id), governor.ErrPaused)
	require.ErrorIs(t, f.gov.Execute(bob, id), governor.ErrPaused)
	// Cancellation stays available
	require.NoError(t, f.gov.Cancel(guardian, id))
}

func TestAdminSetters(t *testing.T) {
	f := setup(t, 0)
	require.ErrorIs(t, f.gov.SetQuorum(alice, 100), governor.ErrUnauthorized)
	require.ErrorIs(t, f.gov.SetQuorum(deployer, 0), governor.ErrInvalidQuorum)
	require.ErrorIs(t, f.gov.SetQuorum(deployer, 10_001), governor.ErrInvalidQuorum)
	require.NoError(t, f.gov.SetQuorum(deployer, 1000))
	assert.Equal(t, uint64(1000), f.gov.QuorumBps())
	require.NoError(t, f.gov.SetProposalCreationCost(deployer, u(5)))
	assert.Equal(t, u(5), f.gov.ProposalCost())
	require.NoError(t, f.gov.SetVotingDelay(deployer, 3))
	require.ErrorIs(t, f.gov.SetVotingPeriod(deployer, 0), governor.ErrInvalidVotingPeriod)
	require.NoError(t, f.gov.SetVotingPeriod(deployer, 20))
	require.NoError(t, f.gov.SetProposalGuardian(deployer, common.Address{}))
	assert.Equal(t, common.Address{}, f.gov.Guardian())
	require.NoError(t, f.gov.TransferOwnership(deployer, timelockAddr))
	require.ErrorIs(t, f.gov.SetVotingDelay(deployer, 1), governor.ErrUnauthorized)
}

func TestGovernorCalldata(t *testing.T) {
	f := setup(t, 0)
	ctx := context.Background()
	targets, values, calldatas := capProposal(t, 3000)
	bigValues := make([]*big.Int, len(values))
	for i := range values {
		bigValues[i] = values[i].ToBig()
	}
	data, err := chain.EncodeCall("propose(address[],uint256[],bytes[],string)", targets, bigValues, calldatas, "via calldata")
	require.NoError(t, err)
	receipt, err := f.rt.Submit(ctx, chain.Transaction{From: alice, To: governorAddr, Data: data})
	require.NoError(t, err)
	out, err := chain.DecodeResult(receipt.Return, "uint256")
	require.NoError(t, err)
	id := out[0].(*big.Int)
	assert.Equal(t, int64(1), id.Int64())

	f.clk.Mine(votingDelay)
	data, err = chain.EncodeCall("castVote(uint256,uint8)", id, governor.SupportFor)
	require.NoError(t, err)
	_, err = f.rt.Submit(ctx, chain.Transaction{From: bob, To: governorAddr, Data: data})
	require.NoError(t, err)
	_, err = f.rt.Submit(ctx, chain.Transaction{From: bob, To: governorAddr, Data: data})
	require.ErrorIs(t, err, governor.ErrAlreadyVoted)

	data, err = chain.EncodeCall("state(uint256)", id)
	require.NoError(t, err)
	receipt, err = f.rt.Submit(ctx, chain.Transaction{From: bob, To: governorAddr, Data: data})
	require.NoError(t, err)
	out, err = chain.DecodeResult(receipt.Return, "uint8")
	require.NoError(t, err)
	assert.Equal(t, uint8(governor.StateActive), out[0].(uint8))
}
