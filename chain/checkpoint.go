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
	"slices"
	"sort"

	"github.com/holiman/uint256"
)

// Checkpoint records a value as of a block number
type Checkpoint struct {
	Block uint64
	Value uint256.Int
}

// Checkpoints is a block-ordered series with at most one entry per block
type Checkpoints []Checkpoint

// Latest returns the most recent value, or zero for an empty series
func (c Checkpoints) Latest() uint256.Int {
	if len(c) == 0 {
		return uint256.Int{}
	}
	return c[len(c)-1].Value
}

// At returns the value of the latest checkpoint at or before block
func (c Checkpoints) At(block uint64) uint256.Int {
	// First index with a checkpoint after block
	idx := sort.Search(len(c), func(i int) bool {
		return c[i].Block > block
	})
	if idx == 0 {
		return uint256.Int{}
	}
	return c[idx-1].Value
}

// Push records value at block, overwriting an entry for the same block
func (c Checkpoints) Push(block uint64, value uint256.Int) Checkpoints {
	if n := len(c); n > 0 && c[n-1].Block == block {
		c[n-1].Value = value
		return c
	}
	return append(c, Checkpoint{Block: block, Value: value})
}

func (c Checkpoints) Clone() Checkpoints {
	return slices.Clone(c)
}
