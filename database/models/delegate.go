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

var ErrDelegateNotFound = errors.New("delegate not found")

type Delegate struct {
	ID             uint   `gorm:"primarykey"`
	Address        []byte `gorm:"uniqueIndex;size:20;not null"`
	Profile        string
	Philosophy     string
	Interests      string
	RegisteredAt   uint64
	Active         bool         `gorm:"index;default:true"`
	TotalDelegated types.Amount `gorm:"not null"`
	UpdatedBlock   uint64
}

func (Delegate) TableName() string {
	return "delegate"
}

// Delegation is the current deposit of an owner with a delegate. Rows are
// removed when the amount reaches zero.
type Delegation struct {
	ID           uint         `gorm:"primarykey"`
	Owner        []byte       `gorm:"uniqueIndex:idx_delegation_owner_delegate,priority:1;size:20;not null"`
	Delegate     []byte       `gorm:"uniqueIndex:idx_delegation_owner_delegate,priority:2;index;size:20;not null"`
	Amount       types.Amount `gorm:"not null"`
	DelegatedAt  uint64
	ExpiresAt    uint64
	UpdatedBlock uint64
}

func (Delegation) TableName() string {
	return "delegation"
}
