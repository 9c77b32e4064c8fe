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
	"github.com/blinklabs-io/govern/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetDelegate gets a delegate
func (d *MetadataStoreSqlite) GetDelegate(
	addr []byte,
	txn *gorm.DB,
) (models.Delegate, error) {
	ret := models.Delegate{}
	if result := d.conn(txn).First(&ret, "address = ?", addr); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, models.ErrDelegateNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// SetDelegate saves a delegate profile. The delegated total is maintained by
// SetDelegation and is left untouched on conflict.
func (d *MetadataStoreSqlite) SetDelegate(
	delegate *models.Delegate,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{
				"profile",
				"philosophy",
				"interests",
				"registered_at",
				"active",
				"updated_block",
			},
		),
	}
	if result := d.conn(txn).Clauses(onConflict).Create(delegate); result.Error != nil {
		return result.Error
	}
	return nil
}

// SetDelegateActive updates the active flag of a delegate
func (d *MetadataStoreSqlite) SetDelegateActive(
	addr []byte,
	active bool,
	block uint64,
	txn *gorm.DB,
) error {
	result := d.conn(txn).
		Model(&models.Delegate{}).
		Where("address = ?", addr).
		Updates(map[string]any{"active": active, "updated_block": block})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrDelegateNotFound
	}
	return nil
}

// GetDelegates returns delegates ordered by registration
func (d *MetadataStoreSqlite) GetDelegates(
	activeOnly bool,
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.Delegate, error) {
	var ret []models.Delegate
	query := d.conn(txn).Order("id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if result := query.Offset(offset).Limit(limit).Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// SetDelegation stores the current record of an (owner, delegate) pair and
// adjusts the delegate total by the change. A zero amount removes the record.
func (d *MetadataStoreSqlite) SetDelegation(
	delegation *models.Delegation,
	txn *gorm.DB,
) error {
	apply := func(txn *gorm.DB) error {
		prev := models.Delegation{}
		result := txn.
			Where("owner = ? AND delegate = ?", delegation.Owner, delegation.Delegate).
			Limit(1).
			Find(&prev)
		if result.Error != nil {
			return result.Error
		}
		delegate := models.Delegate{}
		result = txn.Where("address = ?", delegation.Delegate).Limit(1).Find(&delegate)
		if result.Error != nil {
			return result.Error
		}
		if delegate.ID != 0 {
			total := delegate.TotalDelegated.Int
			total.Sub(&total, &prev.Amount.Int)
			total.Add(&total, &delegation.Amount.Int)
			result = txn.Model(&delegate).Updates(map[string]any{
				"total_delegated": types.NewAmount(&total),
				"updated_block":   delegation.UpdatedBlock,
			})
			if result.Error != nil {
				return result.Error
			}
		}
		if delegation.Amount.IsZero() {
			if prev.ID == 0 {
				return nil
			}
			return txn.Delete(&prev).Error
		}
		onConflict := clause.OnConflict{
			Columns: []clause.Column{{Name: "owner"}, {Name: "delegate"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{"amount", "delegated_at", "expires_at", "updated_block"},
			),
		}
		return txn.Clauses(onConflict).Create(delegation).Error
	}
	if txn != nil {
		return apply(txn)
	}
	return d.DB().Transaction(apply)
}

// GetDelegation gets the record of an (owner, delegate) pair
func (d *MetadataStoreSqlite) GetDelegation(
	owner []byte,
	delegate []byte,
	txn *gorm.DB,
) (models.Delegation, error) {
	ret := models.Delegation{}
	result := d.conn(txn).
		Where("owner = ? AND delegate = ?", owner, delegate).
		First(&ret)
	if result.Error != nil {
		return ret, result.Error
	}
	return ret, nil
}

// GetDelegationsTo returns the delegations held by a delegate
func (d *MetadataStoreSqlite) GetDelegationsTo(
	delegate []byte,
	txn *gorm.DB,
) ([]models.Delegation, error) {
	var ret []models.Delegation
	if result := d.conn(txn).Where("delegate = ?", delegate).Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
