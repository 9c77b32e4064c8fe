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

package chain_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/blinklabs-io/govern/chain"
)

func TestCheckpointsLookup(t *testing.T) {
	var cps chain.Checkpoints
	zero := uint256.Int{}
	assert.Equal(t, zero, cps.At(5))
	assert.Equal(t, zero, cps.Latest())

	cps = cps.Push(10, *uint256.NewInt(100))
	cps = cps.Push(20, *uint256.NewInt(200))
	cps = cps.Push(20, *uint256.NewInt(250))
	cps = cps.Push(30, *uint256.NewInt(50))
	assert.Len(t, cps, 3)

	testDefs := []struct {
		block    uint64
		expected uint64
	}{
		{block: 9, expected: 0},
		{block: 10, expected: 100},
		{block: 19, expected: 100},
		{block: 20, expected: 250},
		{block: 29, expected: 250},
		{block: 30, expected: 50},
		{block: 1000, expected: 50},
	}
	for _, testDef := range testDefs {
		got := cps.At(testDef.block)
		assert.Equal(t, testDef.expected, got.Uint64(), "block %d", testDef.block)
	}
	latest := cps.Latest()
	assert.Equal(t, uint64(50), latest.Uint64())
}

func TestCheckpointsCloneIsIndependent(t *testing.T) {
	cps := chain.Checkpoints{}.Push(1, *uint256.NewInt(1))
	clone := cps.Clone()
	clone = clone.Push(1, *uint256.NewInt(9))
	latest := cps.Latest()
	assert.Equal(t, uint64(1), latest.Uint64())
	cloneLatest := clone.Latest()
	assert.Equal(t, uint64(9), cloneLatest.Uint64())
}
