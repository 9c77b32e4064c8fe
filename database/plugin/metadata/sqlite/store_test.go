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

package sqlite

import (
	"testing"

	"github.com/blinklabs-io/govern/database/models"
	"github.com/blinklabs-io/govern/database/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAlice    = []byte("alice_______________")
	testBob      = []byte("bob_________________")
	testCarol    = []byte("carol_______________")
	testTimelock = []byte("timelock____________")
)

func newTestStore(t *testing.T) *MetadataStoreSqlite {
	t.Helper()
	store, err := New("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

func amount(v uint64) types.Amount {
	return types.NewAmount(uint256.NewInt(v))
}

func TestInMemoryStoresAreIsolated(t *testing.T) {
	s1 := newTestStore(t)
	s2 := newTestStore(t)
	require.NoError(t, s1.AddEvent(&models.EventRecord{Sequence: 1, Type: "token.transfer", Block: 1}, nil))
	last, err := s2.LastEventSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), last)
}

func TestTokenAccount(t *testing.T) {
	store := newTestStore(t)

	acct, err := store.GetTokenAccount(testAlice, nil)
	require.NoError(t, err)
	assert.Equal(t, testAlice, acct.Address)
	assert.True(t, acct.Balance.IsZero())

	acct.Balance = amount(500)
	acct.UpdatedBlock = 10
	require.NoError(t, store.SetTokenAccount(&acct, nil))

	acct, err = store.GetTokenAccount(testAlice, nil)
	require.NoError(t, err)
	acct.Votes = amount(300)
	acct.Delegatee = testBob
	acct.UpdatedBlock = 11
	require.NoError(t, store.SetTokenAccount(&acct, nil))

	acct, err = store.GetTokenAccount(testAlice, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), acct.Balance.Uint64())
	assert.Equal(t, uint64(300), acct.Votes.Uint64())
	assert.Equal(t, testBob, acct.Delegatee)
	assert.Equal(t, uint64(11), acct.UpdatedBlock)

	accounts, err := store.GetTokenAccounts(0, 10, nil)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestDelegationTotals(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetDelegate(&models.Delegate{
		Address:      testBob,
		Profile:      "bob",
		RegisteredAt: 100,
		Active:       true,
	}, nil))

	require.NoError(t, store.SetDelegation(&models.Delegation{
		Owner:        testAlice,
		Delegate:     testBob,
		Amount:       amount(1000),
		DelegatedAt:  100,
		UpdatedBlock: 5,
	}, nil))
	require.NoError(t, store.SetDelegation(&models.Delegation{
		Owner:        testCarol,
		Delegate:     testBob,
		Amount:       amount(250),
		DelegatedAt:  110,
		UpdatedBlock: 6,
	}, nil))

	delegate, err := store.GetDelegate(testBob, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1250), delegate.TotalDelegated.Uint64())

	// Partial undelegation
	require.NoError(t, store.SetDelegation(&models.Delegation{
		Owner:        testAlice,
		Delegate:     testBob,
		Amount:       amount(600),
		DelegatedAt:  100,
		UpdatedBlock: 7,
	}, nil))
	delegate, err = store.GetDelegate(testBob, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(850), delegate.TotalDelegated.Uint64())

	// Profile updates keep the total
	require.NoError(t, store.SetDelegate(&models.Delegate{
		Address:      testBob,
		Profile:      "bob v2",
		RegisteredAt: 100,
		Active:       true,
	}, nil))
	delegate, err = store.GetDelegate(testBob, nil)
	require.NoError(t, err)
	assert.Equal(t, "bob v2", delegate.Profile)
	assert.Equal(t, uint64(850), delegate.TotalDelegated.Uint64())

	// Zero amount removes the record
	require.NoError(t, store.SetDelegation(&models.Delegation{
		Owner:        testCarol,
		Delegate:     testBob,
		UpdatedBlock: 8,
	}, nil))
	recs, err := store.GetDelegationsTo(testBob, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, testAlice, recs[0].Owner)
	assert.Equal(t, uint64(600), recs[0].Amount.Uint64())
	_, err = store.GetDelegation(testCarol, testBob, nil)
	require.Error(t, err)

	delegate, err = store.GetDelegate(testBob, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), delegate.TotalDelegated.Uint64())
}

func TestDelegateActive(t *testing.T) {
	store := newTestStore(t)
	require.ErrorIs(t, store.SetDelegateActive(testBob, false, 1, nil), models.ErrDelegateNotFound)
	_, err := store.GetDelegate(testBob, nil)
	require.ErrorIs(t, err, models.ErrDelegateNotFound)

	require.NoError(t, store.SetDelegate(&models.Delegate{Address: testBob, Active: true}, nil))
	require.NoError(t, store.SetDelegate(&models.Delegate{Address: testCarol, Active: true}, nil))
	require.NoError(t, store.SetDelegateActive(testBob, false, 2, nil))

	all, err := store.GetDelegates(false, 0, 10, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	active, err := store.GetDelegates(true, 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, testCarol, active[0].Address)
}

func TestProposalVotes(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetProposal(1, nil)
	require.ErrorIs(t, err, models.ErrProposalNotFound)

	proposal := &models.Proposal{
		ProposalID:  1,
		Proposer:    testBob,
		Description: "raise the cap",
		VoteStart:   11,
		VoteEnd:     61,
		Status:      "pending",
		Actions: []models.ProposalAction{
			{ActionIndex: 0, Target: testTimelock, Data: []byte{0x01}},
			{ActionIndex: 1, Target: testTimelock, Value: amount(5), Data: []byte{0x02}},
		},
	}
	require.NoError(t, store.SetProposal(proposal, nil))
	// Saving again is a no-op
	require.NoError(t, store.SetProposal(&models.Proposal{
		ProposalID: 1,
		Proposer:   testCarol,
		Status:     "pending",
		Actions:    []models.ProposalAction{{ActionIndex: 0, Target: testCarol}},
	}, nil))

	got, err := store.GetProposal(1, nil)
	require.NoError(t, err)
	assert.Equal(t, testBob, got.Proposer)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, uint64(5), got.Actions[1].Value.Uint64())

	require.NoError(t, store.AddVote(&models.Vote{ProposalID: 1, Voter: testBob, Support: VoteSupportFor, Weight: amount(1000)}, nil))
	require.NoError(t, store.AddVote(&models.Vote{ProposalID: 1, Voter: testCarol, Support: VoteSupportAgainst, Weight: amount(600)}, nil))
	require.NoError(t, store.AddVote(&models.Vote{ProposalID: 1, Voter: testAlice, Support: VoteSupportAbstain, Weight: amount(50)}, nil))
	// Duplicate voter does not double count
	require.NoError(t, store.AddVote(&models.Vote{ProposalID: 1, Voter: testBob, Support: VoteSupportFor, Weight: amount(1000)}, nil))
	require.Error(t, store.AddVote(&models.Vote{ProposalID: 1, Voter: testTimelock, Support: 7, Weight: amount(1)}, nil))
	require.ErrorIs(t, store.AddVote(&models.Vote{ProposalID: 9, Voter: testBob, Support: VoteSupportFor, Weight: amount(1)}, nil), models.ErrProposalNotFound)

	got, err = store.GetProposal(1, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), got.ForVotes.Uint64())
	assert.Equal(t, uint64(600), got.AgainstVotes.Uint64())
	assert.Equal(t, uint64(50), got.AbstainVotes.Uint64())

	votes, err := store.GetVotes(1, 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, votes, 3)
	assert.Equal(t, testBob, votes[0].Voter)
	votes, err = store.GetVotes(1, 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, testCarol, votes[0].Voter)

	require.NoError(t, store.SetProposalStatus(1, "queued", 5000, nil))
	require.ErrorIs(t, store.SetProposalStatus(2, "queued", 0, nil), models.ErrProposalNotFound)
	require.NoError(t, store.SetProposal(&models.Proposal{ProposalID: 2, Proposer: testCarol, Status: "canceled"}, nil))

	got, err = store.GetProposal(1, nil)
	require.NoError(t, err)
	assert.Equal(t, "queued", got.Status)
	assert.Equal(t, uint64(5000), got.Eta)

	counts, err := store.CountProposalsByStatus(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"queued": 1, "canceled": 1}, counts)

	queued, err := store.GetProposals("queued", 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, uint64(1), queued[0].ProposalID)
	all, err := store.GetProposals("", 0, 10, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTimelockEntries(t *testing.T) {
	store := newTestStore(t)
	hash := make([]byte, 32)
	hash[0] = 0xab
	require.NoError(t, store.SetTimelockEntry(&models.TimelockEntry{
		Hash:     hash,
		Target:   testTimelock,
		Value:    amount(0),
		Eta:      2000,
		QueuedAt: 1000,
		Status:   "queued",
	}, nil))
	require.NoError(t, store.SetTimelockEntryStatus(hash, "canceled", 3, nil))
	require.ErrorIs(t, store.SetTimelockEntryStatus(make([]byte, 32), "canceled", 3, nil), models.ErrTimelockEntryNotFound)

	entry, err := store.GetTimelockEntry(hash, nil)
	require.NoError(t, err)
	assert.Equal(t, "canceled", entry.Status)
	assert.Equal(t, uint64(2000), entry.Eta)

	entries, err := store.GetTimelockEntries("queued", 0, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCouncil(t *testing.T) {
	store := newTestStore(t)
	for _, addr := range [][]byte{testAlice, testBob, testCarol} {
		require.NoError(t, store.SetCouncilMember(&models.CouncilMember{Address: addr, Foundation: string(addr) == string(testAlice)}, nil))
	}
	require.NoError(t, store.DeleteCouncilMember(testBob, nil))
	members, err := store.GetCouncilMembers(nil)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.True(t, members[0].Foundation)

	require.NoError(t, store.SetCouncilAction(&models.CouncilAction{
		ActionID:  1,
		Type:      "pause",
		Proposer:  testAlice,
		Approvals: 1,
		Status:    "pending",
	}, nil))
	require.NoError(t, store.UpdateCouncilAction(1, 2, "", nil))
	action, err := store.GetCouncilAction(1, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, action.Approvals)
	assert.Equal(t, "pending", action.Status)

	require.NoError(t, store.UpdateCouncilAction(1, -1, "executed", nil))
	action, err = store.GetCouncilAction(1, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, action.Approvals)
	assert.Equal(t, "executed", action.Status)

	require.ErrorIs(t, store.UpdateCouncilAction(2, 1, "", nil), models.ErrCouncilActionNotFound)
	_, err = store.GetCouncilAction(2, nil)
	require.ErrorIs(t, err, models.ErrCouncilActionNotFound)

	pending, err := store.GetCouncilActions("pending", 0, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)
	recs := []models.EventRecord{
		{Sequence: 1, Type: "token.transfer", Block: 1, Timestamp: 100},
		{Sequence: 2, Type: "delegation.delegated", Block: 1, Timestamp: 100},
		{Sequence: 3, Type: "token.approval", Block: 2, Timestamp: 112},
	}
	for i := range recs {
		require.NoError(t, store.AddEvent(&recs[i], nil))
	}
	// Replayed event is ignored
	require.NoError(t, store.AddEvent(&models.EventRecord{Sequence: 2, Type: "other", Block: 9}, nil))

	last, err := store.LastEventSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)

	all, err := store.GetEvents("", 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "delegation.delegated", all[1].Type)

	page, err := store.GetEvents("", 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].Sequence)

	tokens, err := store.GetEvents("token.", 0, 10, nil)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	exact, err := store.GetEvents("token.approval", 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, uint64(3), exact[0].Sequence)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.AddEvent(&models.EventRecord{Sequence: 1, Type: "token.transfer"}, nil))
	require.NoError(t, store.SetCouncilMember(&models.CouncilMember{Address: testAlice}, nil))
	require.NoError(t, store.Reset())
	last, err := store.LastEventSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), last)
	members, err := store.GetCouncilMembers(nil)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.AddEvent(&models.EventRecord{Sequence: 7, Type: "token.transfer"}, nil))
	require.NoError(t, store.Close())
	// Close is idempotent
	require.NoError(t, store.Close())

	store, err = New(dir, nil)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck
	last, err := store.LastEventSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), last)
}
