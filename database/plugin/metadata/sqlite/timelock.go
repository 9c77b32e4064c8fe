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

// GetTimelockEntry gets a timelock entry by hash
func (d *MetadataStoreSqlite) GetTimelockEntry(
	hash []byte,
	txn *gorm.DB,
) (models.TimelockEntry, error) {
	ret := models.TimelockEntry{}
	if result := d.conn(txn).First(&ret, "hash = ?", hash); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrTimelockEntryNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// SetTimelockEntry saves a timelock entry
func (d *MetadataStoreSqlite) SetTimelockEntry(
	entry *models.TimelockEntry,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_block"}),
	}
	if result := d.conn(txn).Clauses(onConflict).Create(entry); result.Error != nil {
		return result.Error
	}
	return nil
}

// SetTimelockEntryStatus updates the status of a timelock entry
func (d *MetadataStoreSqlite) SetTimelockEntryStatus(
	hash []byte,
	status string,
	block uint64,
	txn *gorm.DB,
) error {
	result := d.conn(txn).
		Model(&models.TimelockEntry{}).
		Where("hash = ?", hash).
		Updates(map[string]any{"status": status, "updated_block": block})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrTimelockEntryNotFound
	}
	return nil
}

// GetTimelockEntries returns entries in queue order, optionally filtered by
// status
func (d *MetadataStoreSqlite) GetTimelockEntries(
	status string,
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.TimelockEntry, error) {
	var ret []models.TimelockEntry
	query := d.conn(txn).Order("id")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if result := query.Offset(offset).Limit(limit).Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
