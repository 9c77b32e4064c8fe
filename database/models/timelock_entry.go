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

var ErrTimelockEntryNotFound = errors.New("timelock entry not found")

type TimelockEntry struct {
	ID           uint         `gorm:"primarykey"`
	Hash         []byte       `gorm:"uniqueIndex;size:32;not null"`
	Target       []byte       `gorm:"index;size:20;not null"`
	Value        types.Amount `gorm:"not null"`
	Data         []byte
	Eta          uint64 `gorm:"index"`
	QueuedAt     uint64
	Status       string `gorm:"index;size:16;not null"`
	UpdatedBlock uint64
}

func (TimelockEntry) TableName() string {
	return "timelock_entry"
}
