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

import "github.com/blinklabs-io/govern/database/types"

// TokenAccount is the balance and vote weight of a token holder
type TokenAccount struct {
	ID           uint         `gorm:"primarykey"`
	Address      []byte       `gorm:"uniqueIndex;size:20;not null"`
	Balance      types.Amount `gorm:"not null"`
	Votes        types.Amount `gorm:"not null"`
	Delegatee    []byte       `gorm:"size:20"`
	UpdatedBlock uint64       `gorm:"index"`
}

func (TokenAccount) TableName() string {
	return "token_account"
}
