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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const journalMetricNamePrefix = "database_journal_"

type journalMetrics struct {
	appends      prometheus.Counter
	appendErrors prometheus.Counter
	bytes        prometheus.Counter
	lastSequence prometheus.Gauge
}

func (d *JournalStore) registerJournalMetrics() {
	promautoFactory := promauto.With(d.promRegistry)
	d.metrics = &journalMetrics{
		appends: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "appends_total",
			Help: "Total number of transactions appended to the journal",
		}),
		appendErrors: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "append_errors_total",
			Help: "Total number of failed journal appends",
		}),
		bytes: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: journalMetricNamePrefix + "bytes_total",
			Help: "Total encoded bytes written to the journal",
		}),
		lastSequence: promautoFactory.NewGauge(prometheus.GaugeOpts{
			Name: journalMetricNamePrefix + "last_sequence",
			Help: "Sequence of the most recent journal record",
		}),
	}
}
