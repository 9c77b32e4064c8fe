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

package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/govern/internal/config"
	"github.com/prometheus/client_golang/prometheus"
)

// ReplaySummary describes the state rebuilt from the journal
type ReplaySummary struct {
	Transactions uint64
	Events       uint64
	Block        uint64
	Timestamp    uint64
	Proposals    uint64
	Duration     time.Duration
}

// Replay rebuilds contract state and projections from the journal without
// serving the API, then shuts down
func Replay(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ReplaySummary, error) {
	start := time.Now()
	d, err := newDAO(cfg, logger, prometheus.NewRegistry(), "")
	if err != nil {
		return nil, err
	}
	if err := d.Start(ctx); err != nil {
		//nolint:errcheck
		d.Stop()
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}
	if err := d.WaitIndexed(ctx); err != nil {
		//nolint:errcheck
		d.Stop()
		return nil, fmt.Errorf("failed to rebuild projections: %w", err)
	}
	rt := d.Runtime()
	summary := &ReplaySummary{
		Transactions: rt.Sequence(),
		Events:       rt.EventSequence(),
		Block:        rt.BlockNumber(),
		Timestamp:    rt.Now(),
		Duration:     time.Since(start),
	}
	//nolint:errcheck
	rt.View(func() error {
		summary.Proposals = d.Governor().ProposalCount()
		return nil
	})
	if err := d.Stop(); err != nil {
		return nil, err
	}
	logger.Info(
		fmt.Sprintf(
			"finished replaying %d transactions (%d events)",
			summary.Transactions,
			summary.Events,
		),
		"component", "node",
		"block", summary.Block,
		"proposals", summary.Proposals,
		"duration", summary.Duration.String(),
	)
	return summary, nil
}
