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
	"errors"
	"fmt"

	"github.com/blinklabs-io/govern/database/models"
	"github.com/blinklabs-io/govern/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	VoteSupportAgainst uint8 = 0
	VoteSupportFor     uint8 = 1
	VoteSupportAbstain uint8 = 2
)

// GetProposal gets a proposal along with its actions
func (d *MetadataStoreSqlite) GetProposal(
	id uint64,
	txn *gorm.DB,
) (models.Proposal, error) {
	ret := models.Proposal{}
	result := d.conn(txn).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("action_index")
		}).
		First(&ret, "proposal_id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrProposalNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// SetProposal saves a new proposal and its actions. Saving a proposal id
// that already exists is a no-op.
func (d *MetadataStoreSqlite) SetProposal(
	proposal *models.Proposal,
	txn *gorm.DB,
) error {
	apply := func(txn *gorm.DB) error {
		var count int64
		result := txn.
			Model(&models.Proposal{}).
			Where("proposal_id = ?", proposal.ProposalID).
			Count(&count)
		if result.Error != nil {
			return result.Error
		}
		if count > 0 {
			return nil
		}
		return txn.Create(proposal).Error
	}
	if txn != nil {
		return apply(txn)
	}
	return d.DB().Transaction(apply)
}


// SetProposalStatus updates the lifecycle status of a proposal. A non-zero
// eta is stored along with it.
func (d *MetadataStoreSqlite) SetProposalStatus(
	id uint64,
	status string,
	eta uint64,
	txn *gorm.DB,
) error {
	updates := map[string]any{"status": status}
	if eta > 0 {
		updates["eta"] = eta
	}
	result := d.conn(txn).
		Model(&models.Proposal{}).
		Where("proposal_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProposalNotFound
	}
	return nil
}

// GetProposals returns proposals in id order, optionally filtered by status
func (d *MetadataStoreSqlite) GetProposals(
	status string,
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.Proposal, error) {
	var ret []models.Proposal
	query := d.conn(txn).Order("proposal_id")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if result := query.Offset(offset).Limit(limit).Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountProposalsByStatus returns the number of proposals per status
func (d *MetadataStoreSqlite) CountProposalsByStatus(
	txn *gorm.DB,
) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	result := d.conn(txn).
		Model(&models.Proposal{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	ret := make(map[string]int64, len(rows))
	for _, row := range rows {
		ret[row.Status] = row.Count
	}
	return ret, nil
}

// AddVote records a vote and adds its weight to the proposal tally. A
// repeated (proposal, voter) pair is ignored.
func (d *MetadataStoreSqlite) AddVote(
	vote *models.Vote,
	txn *gorm.DB,
) error {
	var column string
	switch vote.Support {
	case VoteSupportAgainst:
		column = "against_votes"
	case VoteSupportFor:
		column = "for_votes"
	case VoteSupportAbstain:
		column = "abstain_votes"
	default:
		return fmt.Errorf("invalid vote support value: %d", vote.Support)
	}
	apply := func(txn *gorm.DB) error {
		result := txn.Clauses(clause.OnConflict{DoNothing: true}).Create(vote)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		proposal := models.Proposal{}
		if result := txn.First(&proposal, "proposal_id = ?", vote.ProposalID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return models.ErrProposalNotFound
			}
			return result.Error
		}
		var tally types.Amount
		switch vote.Support {
		case VoteSupportAgainst:
			tally = proposal.AgainstVotes
		case VoteSupportFor:
			tally = proposal.ForVotes
		default:
			tally = proposal.AbstainVotes
		}
		tally.Add(&tally.Int, &vote.Weight.Int)
		return txn.Model(&proposal).Update(column, tally).Error
	}
	if txn != nil {
		return apply(txn)
	}
	return d.DB().Transaction(apply)
}

// GetVotes returns the votes of a proposal in the order they were cast
func (d *MetadataStoreSqlite) GetVotes(
	proposalID uint64,
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.Vote, error) {
	var ret []models.Vote
	result := d.conn(txn).
		Where("proposal_id = ?", proposalID).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
