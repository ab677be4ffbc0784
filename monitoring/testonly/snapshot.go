// Copyright 2018 Google Inc. All Rights Reserved.
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

// Package testonly holds helpers for asserting on metric values in tests.
package testonly

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/ct-frontend/monitoring"
)

// CounterSnapshot remembers counter values so that a test can check how much
// they moved. Metrics are process-global, so tests compare deltas rather
// than absolute values.
type CounterSnapshot struct {
	c monitoring.Counter

	mu     sync.Mutex
	values map[string]float64
}

// NewCounterSnapshot returns a snapshot of c with nothing recorded.
func NewCounterSnapshot(c monitoring.Counter) *CounterSnapshot {
	return &CounterSnapshot{c: c, values: make(map[string]float64)}
}

// Record stores the current value of the counter for labels.
func (s *CounterSnapshot) Record(labels ...string) *CounterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[labelKey(labels)] = s.c.Value(labels...)
	return s
}

// Delta returns how far the counter for labels moved since Record.
func (s *CounterSnapshot) Delta(labels ...string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.values[labelKey(labels)]
	if !ok {
		panic(fmt.Sprintf("no snapshot recorded for %v", labels))
	}
	return s.c.Value(labels...) - old
}

// Labels are assumed not to contain '|'.
func labelKey(labels []string) string {
	return strings.Join(labels, "|")
}
