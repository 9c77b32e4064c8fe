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

	"github.com/blinklabs-io/govern/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetCouncilMember saves a council member
func (d *MetadataStoreSqlite) SetCouncilMember(
	member *models.CouncilMember,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}
	if result := d.conn(txn).Clauses(onConflict).Create(member); result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteCouncilMember removes a council member
func (d *MetadataStoreSqlite) DeleteCouncilMember(
	addr []byte,
	txn *gorm.DB,
) error {
	result := d.conn(txn).Where("address = ?", addr).Delete(&models.CouncilMember{})
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetCouncilMembers returns members in the order they were added
func (d *MetadataStoreSqlite) GetCouncilMembers(
	txn *gorm.DB,
) ([]models.CouncilMember, error) {
	var ret []models.CouncilMember
	if result := d.conn(txn).Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetCouncilAction gets an emergency action
func (d *MetadataStoreSqlite) GetCouncilAction(
	id uint64,
	txn *gorm.DB,
) (models.CouncilAction, error) {
	ret := models.CouncilAction{}
	if result := d.conn(txn).First(&ret, "action_id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrCouncilActionNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// SetCouncilAction saves a new emergency action. Saving an existing id is a
// no-op.
func (d *MetadataStoreSqlite) SetCouncilAction(
	action *models.CouncilAction,
	txn *gorm.DB,
) error {
	result := d.conn(txn).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(action)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateCouncilAction updates the approval count and status of an action.
// An empty status leaves the status unchanged and a negative approval count
// leaves the count unchanged.
func (d *MetadataStoreSqlite) UpdateCouncilAction(
	id uint64,
	approvals int,
	status string,
	txn *gorm.DB,
) error {
	updates := map[string]any{}
	if approvals >= 0 {
		updates["approvals"] = approvals
	}
	if status != "" {
		updates["status"] = status
	}
	if len(updates) == 0 {
		return nil
	}
	result := d.conn(txn).
		Model(&models.CouncilAction{}).
		Where("action_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrCouncilActionNotFound
	}
	return nil
}

// GetCouncilActions returns actions in id order, optionally filtered by status
func (d *MetadataStoreSqlite) GetCouncilActions(
	status string,
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.CouncilAction, error) {
	var ret []models.CouncilAction
	query := d.conn(txn).Order("action_id")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if result := query.Offset(offset).Limit(limit).Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
