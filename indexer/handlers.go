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

package indexer

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/database/models"
	"github.com/blinklabs-io/govern/database/types"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/event"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

func (i *Indexer) handleEvent(evt event.Event) error {
	data, err := marshalEventData(evt.Data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	proposalChanged := false
	err = i.config.Store.DB().Transaction(func(txn *gorm.DB) error {
		rec := &models.EventRecord{
			Sequence:  evt.Sequence,
			Type:      string(evt.Type),
			Block:     evt.Block,
			Timestamp: uint64(evt.Timestamp.Unix()), // #nosec G115
			Data:      string(data),
		}
		if err := i.config.Store.AddEvent(rec, txn); err != nil {
			return err
		}
		var err error
		proposalChanged, err = i.project(evt, txn)
		return err
	})
	if err != nil {
		return err
	}
	if proposalChanged {
		return i.updateProposalGauge()
	}
	return nil
}

// marshalEventData encodes an event payload as JSON. The payload is copied
// behind a pointer so pointer receiver marshalers on nested amounts apply.
func marshalEventData(data any) ([]byte, error) {
	if data == nil {
		return []byte("null"), nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		data = ptr.Interface()
	}
	return json.Marshal(data)
}

// project writes the rows derived from one event. It reports whether a
// proposal status changed.
//
//nolint:gocyclo
func (i *Indexer) project(evt event.Event, txn *gorm.DB) (bool, error) {
	store := i.config.Store
	block := evt.Block
	switch e := evt.Data.(type) {
	// Token
	case token.TransferEvent:
		if e.From != (common.Address{}) {
			acct, err := store.GetTokenAccount(e.From.Bytes(), txn)
			if err != nil {
				return false, err
			}
			acct.Balance.Sub(&acct.Balance.Int, &e.Amount)
			acct.UpdatedBlock = block
			if err := store.SetTokenAccount(&acct, txn); err != nil {
				return false, err
			}
		}
		acct, err := store.GetTokenAccount(e.To.Bytes(), txn)
		if err != nil {
			return false, err
		}
		acct.Balance.Add(&acct.Balance.Int, &e.Amount)
		acct.UpdatedBlock = block
		return false, store.SetTokenAccount(&acct, txn)
	case token.DelegateChangedEvent:
		acct, err := store.GetTokenAccount(e.Delegator.Bytes(), txn)
		if err != nil {
			return false, err
		}
		acct.Delegatee = e.Delegate.Bytes()
		acct.UpdatedBlock = block
		return false, store.SetTokenAccount(&acct, txn)
	case token.DelegateVotesChangedEvent:
		acct, err := store.GetTokenAccount(e.Delegate.Bytes(), txn)
		if err != nil {
			return false, err
		}
		acct.Votes = types.NewAmount(&e.Votes)
		acct.UpdatedBlock = block
		return false, store.SetTokenAccount(&acct, txn)

	// Delegation
	case delegation.DelegateRegisteredEvent:
		return false, store.SetDelegate(delegateModel(e.Delegate, block), txn)
	case delegation.DelegateUpdatedEvent:
		return false, store.SetDelegate(delegateModel(e.Delegate, block), txn)
	case delegation.DelegateDeactivatedEvent:
		return false, store.SetDelegateActive(e.Delegate.Bytes(), false, block, txn)
	case delegation.DelegationChangedEvent:
		rec := e.Delegation
		return false, store.SetDelegation(&models.Delegation{
			Owner:        rec.Owner.Bytes(),
			Delegate:     rec.Delegate.Bytes(),
			Amount:       types.NewAmount(&rec.Amount),
			DelegatedAt:  rec.DelegatedAt,
			ExpiresAt:    rec.ExpiresAt,
			UpdatedBlock: block,
		}, txn)

	// Governor
	case governor.ProposalCreatedEvent:
		return true, store.SetProposal(proposalModel(e.Proposal, block), txn)
	case governor.VoteCastEvent:
		err := store.AddVote(&models.Vote{
			ProposalID: e.ID,
			Voter:      e.Receipt.Voter.Bytes(),
			Support:    e.Receipt.Support,
			Weight:     types.NewAmount(&e.Receipt.Weight),
			Reason:     e.Receipt.Reason,
			AddedBlock: block,
			Timestamp:  uint64(evt.Timestamp.Unix()), // #nosec G115
		}, txn)
		if err != nil {
			return false, err
		}
		return true, store.SetProposalStatus(e.ID, governor.StateActive.String(), 0, txn)
	case governor.ProposalCanceledEvent:
		return true, store.SetProposalStatus(e.ID, governor.StateCanceled.String(), 0, txn)
	case governor.ProposalQueuedEvent:
		return true, store.SetProposalStatus(e.ID, governor.StateQueued.String(), e.Eta, txn)
	case governor.ProposalExecutedEvent:
		return true, store.SetProposalStatus(e.ID, governor.StateExecuted.String(), 0, txn)

	// Timelock
	case timelock.QueuedEvent:
		return false, store.SetTimelockEntry(&models.TimelockEntry{
			Hash:         e.Entry.Hash.Bytes(),
			Target:       e.Entry.Target.Bytes(),
			Value:        types.NewAmount(&e.Entry.Value),
			Data:         e.Entry.Data,
			Eta:          e.Entry.Eta,
			QueuedAt:     e.Entry.QueuedAt,
			Status:       timelock.StatusQueued.String(),
			UpdatedBlock: block,
		}, txn)
	case timelock.ExecutedEvent:
		return false, store.SetTimelockEntryStatus(e.Entry.Hash.Bytes(), timelock.StatusExecuted.String(), block, txn)
	case timelock.CanceledEvent:
		return false, store.SetTimelockEntryStatus(e.Hash.Bytes(), timelock.StatusCanceled.String(), block, txn)

	// Council
	case council.MemberAddedEvent:
		return false, store.SetCouncilMember(&models.CouncilMember{
			Address:    e.Member.Address.Bytes(),
			Foundation: e.Member.Foundation,
			AddedBlock: block,
		}, txn)
	case council.MemberRemovedEvent:
		return false, store.DeleteCouncilMember(e.Member.Bytes(), txn)
	case council.ActionProposedEvent:
		a := e.Action
		return false, store.SetCouncilAction(&models.CouncilAction{
			ActionID:   a.ID,
			Type:       a.Type.String(),
			Proposer:   a.Proposer.Bytes(),
			Target:     a.Target.Bytes(),
			Value:      types.NewAmount(&a.Value),
			Data:       a.Data,
			Reason:     a.Reason,
			Approvals:  len(a.Approvals),
			Status:     council.StatusPending.String(),
			ProposedAt: a.CreatedAt,
			AddedBlock: block,
		}, txn)
	case council.ActionApprovedEvent:
		return false, store.UpdateCouncilAction(e.ID, e.Approvals, "", txn)
	case council.ActionExecutedEvent:
		return false, store.UpdateCouncilAction(e.ID, -1, council.StatusExecuted.String(), txn)
	case council.ActionCanceledEvent:
		return false, store.UpdateCouncilAction(e.ID, -1, council.StatusCanceled.String(), txn)
	}
	// Parameter and role updates are kept in the event log only
	return false, nil
}

func delegateModel(d delegation.Delegate, block uint64) *models.Delegate {
	return &models.Delegate{
		Address:      d.Address.Bytes(),
		Profile:      d.Profile,
		Philosophy:   d.Philosophy,
		Interests:    d.Interests,
		RegisteredAt: d.RegisteredAt,
		Active:       d.Active,
		UpdatedBlock: block,
	}
}

func proposalModel(p governor.Proposal, block uint64) *models.Proposal {
	ret := &models.Proposal{
		ProposalID:   p.ID,
		Proposer:     p.Proposer.Bytes(),
		Description:  p.Description,
		SubmittedAt:  p.CreatedAt,
		VoteStart:    p.VoteStart,
		VoteEnd:      p.VoteEnd,
		ForVotes:     types.NewAmount(&p.ForVotes),
		AgainstVotes: types.NewAmount(&p.AgainstVotes),
		AbstainVotes: types.NewAmount(&p.AbstainVotes),
		Status:       governor.StatePending.String(),
		AddedBlock:   block,
	}
	for idx, action := range p.Actions {
		ret.Actions = append(ret.Actions, models.ProposalAction{
			ProposalID:  p.ID,
			ActionIndex: uint32(idx), // #nosec G115
			Target:      action.Target.Bytes(),
			Value:       types.NewAmount(&action.Value),
			Data:        action.Data,
		})
	}
	return ret
}
