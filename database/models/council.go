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

var ErrCouncilActionNotFound = errors.New("council action not found")

type CouncilMember struct {
	ID         uint   `gorm:"primarykey"`
	Address    []byte `gorm:"uniqueIndex;size:20;not null"`
	Foundation bool
	AddedBlock uint64
}

func (CouncilMember) TableName() string {
	return "council_member"
}

type CouncilAction struct {
	ID         uint   `gorm:"primarykey"`
	ActionID   uint64 `gorm:"uniqueIndex;not null"`
	Type       string `gorm:"size:32;not null"`
	Proposer   []byte `gorm:"size:20;not null"`
	Target     []byte `gorm:"size:20"`
	Value      types.Amount
	Data       []byte
	Reason     string
	Approvals  int
	Status     string `gorm:"index;size:16;not null"`
	ProposedAt uint64
	AddedBlock uint64
}

func (CouncilAction) TableName() string {
	return "council_action"
}
