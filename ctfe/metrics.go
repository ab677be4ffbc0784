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

package ctfe

import (
	"sync"

	"github.com/google/ct-frontend/monitoring"
)

const (
	statusLabel = "status"
	kindLabel   = "entry_type"
	resultLabel = "result"
)

var (
	once               sync.Once
	submissions        monitoring.Counter
	submissionLatency  monitoring.Histogram
	queuedEntries      monitoring.Counter
	queueLatency       monitoring.Histogram
	signingFailures    monitoring.Counter
	storageFailures    monitoring.Counter
	lostInsertionRaces monitoring.Counter
)

func createMetrics(mf monitoring.MetricFactory) {
	mf = monitoring.OrInert(mf)
	submissions = mf.NewCounter("submissions", "Number of processed submissions", kindLabel, statusLabel)
	submissionLatency = mf.NewHistogramWithBuckets("submission_latency", "Latency of chain loading and validation in seconds", monitoring.LatencyBuckets(), kindLabel)
	queuedEntries = mf.NewCounter("queued_entries", "Number of entries queued for signing", kindLabel, resultLabel)
	queueLatency = mf.NewHistogramWithBuckets("queue_entry_latency", "Latency of QueueEntry in seconds", monitoring.LatencyBuckets(), kindLabel)
	signingFailures = mf.NewCounter("signing_failures", "Number of SCTs that could not be signed")
	storageFailures = mf.NewCounter("storage_failures", "Number of failed record store operations", "op")
	// Duplicates detected by a failed PutIfAbsent rather than by Get.
	lostInsertionRaces = mf.NewCounter("lost_insertion_races", "Number of entries inserted concurrently by another writer")
}
