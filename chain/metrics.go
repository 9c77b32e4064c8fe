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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type runtimeMetrics struct {
	txTotal    *prometheus.CounterVec
	txDuration prometheus.Histogram
}

func (r *Runtime) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	r.metrics = &runtimeMetrics{
		txTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "govern_runtime_transactions_total",
				Help: "submitted transactions by outcome",
			},
			[]string{"status"},
		),
		txDuration: promautoFactory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "govern_runtime_transaction_duration_seconds",
				Help:    "time spent executing submitted transactions",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}
}

func (r *Runtime) observe(err error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "reverted"
	}
	r.metrics.txTotal.WithLabelValues(status).Inc()
	r.metrics.txDuration.Observe(elapsed.Seconds())
}
