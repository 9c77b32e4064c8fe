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

package models

import (
	"errors"

	"github.com/blinklabs-io/govern/database/types"
)

var ErrProposalNotFound = errors.New("proposal not found")

// Proposal is a governor proposal. Status is the lifecycle state as of the
// last event touching the proposal; time driven transitions such as
// Active to Succeeded are not written.
type Proposal struct {
	ID           uint   `gorm:"primarykey"`
	ProposalID   uint64 `gorm:"uniqueIndex;not null"`
	Proposer     []byte `gorm:"index;size:20;not null"`
	Description  string
	SubmittedAt  uint64
	VoteStart    uint64 `gorm:"index"`
	VoteEnd      uint64 `gorm:"index"`
	Eta          uint64
	ForVotes     types.Amount `gorm:"not null"`
	AgainstVotes types.Amount `gorm:"not null"`
	AbstainVotes types.Amount `gorm:"not null"`
	Status       string       `gorm:"index;size:16;not null"`
	AddedBlock   uint64       `gorm:"index"`
	Actions      []ProposalAction `gorm:"foreignKey:ProposalID;references:ProposalID"`
}

func (Proposal) TableName() string {
	return "proposal"
}

type ProposalAction struct {
	ID          uint         `gorm:"primarykey"`
	ProposalID  uint64       `gorm:"uniqueIndex:idx_proposal_action,priority:1;not null"`
	ActionIndex uint32       `gorm:"uniqueIndex:idx_proposal_action,priority:2;not null"`
	Target      []byte       `gorm:"size:20;not null"`
	Value       types.Amount `gorm:"not null"`
	Data        []byte
}

func (ProposalAction) TableName() string {
	return "proposal_action"
}

type Vote struct {
	ID         uint         `gorm:"primarykey"`
	ProposalID uint64       `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:1;not null"`
	Voter      []byte       `gorm:"uniqueIndex:idx_vote_proposal_voter,priority:2;size:20;not null"`
	Support    uint8        `gorm:"not null"`
	Weight     types.Amount `gorm:"not null"`
	Reason     string
	AddedBlock uint64 `gorm:"index"`
	Timestamp  uint64
}

func (Vote) TableName() string {
	return "vote"
}
