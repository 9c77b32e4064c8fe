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

// GetTokenAccount returns the account for an address. An address never seen
// before yields an empty account.
func (d *MetadataStoreSqlite) GetTokenAccount(
	addr []byte,
	txn *gorm.DB,
) (models.TokenAccount, error) {
	ret := models.TokenAccount{}
	result := d.conn(txn).First(&ret, "address = ?", addr)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return models.TokenAccount{Address: addr}, nil
		}
		return ret, result.Error
	}
	return ret, nil
}

// SetTokenAccount saves an account
func (d *MetadataStoreSqlite) SetTokenAccount(
	account *models.TokenAccount,
	txn *gorm.DB,
) error {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"balance", "votes", "delegatee", "updated_block"},
		),
	}
	if result := d.conn(txn).Clauses(onConflict).Create(account); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetTokenAccounts returns accounts ordered by address
func (d *MetadataStoreSqlite) GetTokenAccounts(
	offset int,
	limit int,
	txn *gorm.DB,
) ([]models.TokenAccount, error) {
	var ret []models.TokenAccount
	result := d.conn(txn).
		Order("address").
		Offset(offset).
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
