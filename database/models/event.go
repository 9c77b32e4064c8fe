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

// EventRecord is a committed event in sequence order. Data holds the JSON
// encoding of the event payload.
type EventRecord struct {
	ID        uint   `gorm:"primarykey"`
	Sequence  uint64 `gorm:"uniqueIndex;not null"`
	Type      string `gorm:"index;size:64;not null"`
	Block     uint64 `gorm:"index;not null"`
	Timestamp uint64 `gorm:"not null"`
	Data      string
}

func (EventRecord) TableName() string {
	return "event"
}
