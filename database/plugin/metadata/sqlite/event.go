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
	"github.com/blinklabs-io/govern/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddEvent records a committed event. A repeated sequence is ignored.
func (d *MetadataStoreSqlite) AddEvent(
	evt *models.EventRecord,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "sequence"}},
		DoNothing: true,
	}
	if result := d.conn(txn).Clauses(onConflict).Create(evt); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetEvents returns events in sequence order starting after the given
// sequence. An empty eventType matches every type and a type ending in "."
// matches by prefix.
func (d *MetadataStoreSqlite) GetEvents(
	eventType string,
	afterSequence uint64,
	limit int,
	txn *gorm.DB,
) ([]models.EventRecord, error) {
	var ret []models.EventRecord
	query := d.conn(txn).
		Where("sequence > ?", afterSequence).
		Order("sequence")
	switch {
	case eventType == "":
	case eventType[len(eventType)-1] == '.':
		query = query.Where("type LIKE ?", eventType+"%")
	default:
		query = query.Where("type = ?", eventType)
	}
	if result := query.Limit(limit).Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// LastEventSequence returns the highest recorded event sequence
func (d *MetadataStoreSqlite) LastEventSequence(txn *gorm.DB) (uint64, error) {
	var seq uint64
	result := d.conn(txn).
		Model(&models.EventRecord{}).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&seq)
	if result.Error != nil {
		return 0, result.Error
	}
	return seq, nil
}
