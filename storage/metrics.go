// Copyright 2026 Google LLC. All Rights Reserved.
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

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/util/clock"
)

const (
	backendLabel = "backend"
	opLabel      = "op"
	resultLabel  = "result"
)

var (
	metricsOnce sync.Once
	opCounter   monitoring.Counter
	opLatency   monitoring.Histogram
)

func createMetrics(mf monitoring.MetricFactory) {
	mf = monitoring.OrInert(mf)
	opCounter = mf.NewCounter("storage_ops", "Number of record store operations by result", backendLabel, opLabel, resultLabel)
	opLatency = mf.NewHistogramWithBuckets("storage_op_latency", "Latency of record store operations in seconds", monitoring.LatencyBuckets(), backendLabel, opLabel)
}

// WithMetrics wraps db so that each operation is counted and timed under
// the given backend name.
func WithMetrics[T any](db Database[T], mf monitoring.MetricFactory, backend string) Database[T] {
	metricsOnce.Do(func() { createMetrics(mf) })
	return &meteredDatabase[T]{db: db, backend: backend, ts: clock.System}
}

type meteredDatabase[T any] struct {
	db      Database[T]
	backend string
	ts      clock.TimeSource
}

func (m *meteredDatabase[T]) observe(op string, start time.Time, result string) {
	opLatency.Observe(clock.SecondsSince(m.ts, start), m.backend, op)
	opCounter.Inc(m.backend, op, result)
}

func (m *meteredDatabase[T]) Get(ctx context.Context, hash []byte) (T, bool, error) {
	start := m.ts.Now()
	record, ok, err := m.db.Get(ctx, hash)
	switch {
	case err != nil:
		m.observe("get", start, "error")
	case ok:
		m.observe("get", start, "found")
	default:
		m.observe("get", start, "not_found")
	}
	return record, ok, err
}

func (m *meteredDatabase[T]) PutIfAbsent(ctx context.Context, hash []byte, record T) (bool, error) {
	start := m.ts.Now()
	inserted, err := m.db.PutIfAbsent(ctx, hash, record)
	switch {
	case err != nil:
		m.observe("put", start, "error")
	case inserted:
		m.observe("put", start, "inserted")
	default:
		m.observe("put", start, "exists")
	}
	return inserted, err
}

func (m *meteredDatabase[T]) Close() error {
	return m.db.Close()
}
