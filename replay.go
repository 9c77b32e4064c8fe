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

package govern

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/database/types"
)

var ErrReplayDiverged = errors.New("journal replay diverged")

// replayClock pins the runtime to journaled positions while replaying.
// Once live it follows the live clock without falling behind the last
// replayed position.
type replayClock struct {
	mu     sync.Mutex
	pinned *chain.ManualClock
	live   chain.Clock
}

func newReplayClock(timestamp uint64) *replayClock {
	return &replayClock{
		pinned: chain.NewManualClock(0, timestamp),
	}
}

func (c *replayClock) liveClock() chain.Clock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *replayClock) BlockNumber() uint64 {
	floor := c.pinned.BlockNumber()
	live := c.liveClock()
	if live == nil {
		return floor
	}
	return max(floor, live.BlockNumber())
}

func (c *replayClock) Now() uint64 {
	floor := c.pinned.Now()
	live := c.liveClock()
	if live == nil {
		return floor
	}
	return max(floor, live.Now())
}

func (c *replayClock) pin(block uint64, timestamp uint64) error {
	return c.pinned.Set(block, timestamp)
}

func (c *replayClock) goLive(live chain.Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = live
}

// replay re-executes every journaled transaction in order and returns the
// last replayed sequence. The runtime must not have a journal attached.
func (d *DAO) replay(ctx context.Context) (uint64, error) {
	var last uint64
	err := d.db.Journal().Iterate(ctx, 1, func(rec chain.JournalRecord) error {
		if rec.Sequence != last+1 {
			return fmt.Errorf("%w: expected %d, found %d", types.ErrJournalGap, last+1, rec.Sequence)
		}
		if err := d.clock.pin(rec.Block, rec.Timestamp); err != nil {
			return fmt.Errorf("%w: sequence %d: %w", ErrReplayDiverged, rec.Sequence, err)
		}
		receipt, err := d.runtime.Submit(ctx, rec.Tx)
		if err != nil {
			return fmt.Errorf("%w: sequence %d: %w", ErrReplayDiverged, rec.Sequence, err)
		}
		if receipt.Sequence != rec.Sequence {
			return fmt.Errorf("%w: sequence %d replayed as %d", ErrReplayDiverged, rec.Sequence, receipt.Sequence)
		}
		last = rec.Sequence
		return nil
	})
	if err != nil {
		return 0, err
	}
	return last, nil
}
