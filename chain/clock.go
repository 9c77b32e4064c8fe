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
	"sync"
	"time"
)

// DefaultBlockTime is the block interval used when none is configured
const DefaultBlockTime = 12 * time.Second

// Clock supplies the current block number and block timestamp (unix seconds).
// Implementations must never move backward.
type Clock interface {
	BlockNumber() uint64
	Now() uint64
}

// Time converts a block timestamp to a time.Time
func Time(ts uint64) time.Time {
	return time.Unix(int64(ts), 0).UTC() // #nosec G115
}

// ManualClock is a Clock that only moves when told to
type ManualClock struct {
	mu        sync.Mutex
	block     uint64
	now       uint64
	blockTime uint64
}

func NewManualClock(block uint64, now uint64) *ManualClock {
	return &ManualClock{
		block:     block,
		now:       now,
		blockTime: uint64(DefaultBlockTime / time.Second),
	}
}

func (c *ManualClock) BlockNumber() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the timestamp forward without producing blocks
func (c *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += uint64(d / time.Second)
}

// Mine produces n blocks, moving the timestamp forward by the block time for each
func (c *ManualClock) Mine(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block += n
	c.now += n * c.blockTime
}

// Set pins the clock to an exact position
func (c *ManualClock) Set(block uint64, now uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if block < c.block || now < c.now {
		return ErrClockBackward
	}
	c.block = block
	c.now = now
	return nil
}

// WallClock derives block position from wall time, a genesis time and a block interval
type WallClock struct {
	genesis  time.Time
	interval time.Duration
	nowFunc  func() time.Time
	mu       sync.Mutex
	last     uint64
}

func NewWallClock(genesis time.Time, interval time.Duration) *WallClock {
	if interval <= 0 {
		interval = DefaultBlockTime
	}
	return &WallClock{
		genesis:  genesis,
		interval: interval,
		nowFunc:  time.Now,
	}
}

func (c *WallClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFunc().Unix()
	if now < 0 {
		now = 0
	}
	// Wall time can step backward, block time cannot
	if uint64(now) > c.last {
		c.last = uint64(now)
	}
	return c.last
}

func (c *WallClock) BlockNumber() uint64 {
	elapsed := c.nowFunc().Sub(c.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.interval)
}
