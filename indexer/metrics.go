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

package indexer

import (
	"github.com/blinklabs-io/govern/governor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type indexerMetrics struct {
	processed    *prometheus.CounterVec
	failed       *prometheus.CounterVec
	lastSequence prometheus.Gauge
	proposals    *prometheus.GaugeVec
}

func (i *Indexer) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	i.metrics = &indexerMetrics{
		processed: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_events_processed_total",
				Help: "total events written to the projection store",
			},
			[]string{"type"},
		),
		failed: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_events_failed_total",
				Help: "total events that failed to index",
			},
			[]string{"type"},
		),
		lastSequence: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: "indexer_last_sequence",
			Help: "sequence of the last indexed event",
		}),
		proposals: promautoFactory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "governance_proposals",
				Help: "number of proposals by last recorded state",
			},
			[]string{"state"},
		),
	}
}

func (i *Indexer) updateProposalGauge() error {
	if i.metrics == nil {
		return nil
	}
	counts, err := i.config.Store.CountProposalsByStatus(nil)
	if err != nil {
		return err
	}
	for _, state := range governor.States() {
		i.metrics.proposals.WithLabelValues(state.String()).Set(float64(counts[state.String()]))
	}
	return nil
}
