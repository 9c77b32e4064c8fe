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

package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Transaction is an externally submitted contract call
type Transaction struct {
	From  common.Address
	To    common.Address
	Value uint256.Int
	Data  []byte
}

const (
	ReceiptStatusFailed  uint8 = 0
	ReceiptStatusSuccess uint8 = 1
)

// Receipt is the outcome of a submitted transaction
type Receipt struct {
	Sequence  uint64 `json:"sequence,omitempty"`
	Status    uint8  `json:"status"`
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
	Return    []byte `json:"return,omitempty"`
	Events    int    `json:"events"`
	Error     string `json:"error,omitempty"`
}

// JournalRecord is a committed transaction along with the chain position it
// was executed at. Replaying records in sequence order rebuilds state.
type JournalRecord struct {
	Sequence  uint64
	Block     uint64
	Timestamp uint64
	Tx        Transaction
}

// Journal persists committed transactions
type Journal interface {
	Append(ctx context.Context, rec JournalRecord) error
}
