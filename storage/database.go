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

// Package storage defines the record store used by the CT frontend to
// deduplicate submissions, and a registry of backends that implement it.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed Database.
var ErrClosed = errors.New("storage: database is closed")

// Database is a write-once map from entry hash to record. Implementations
// must be safe for concurrent use.
type Database[T any] interface {
	// Get returns the record stored under hash. The bool reports whether a
	// record was found.
	Get(ctx context.Context, hash []byte) (T, bool, error)
	// PutIfAbsent atomically stores record under hash unless a record is
	// already present. It reports whether record was stored. An existing
	// record is never overwritten.
	PutIfAbsent(ctx context.Context, hash []byte, record T) (bool, error)
	// Close releases the resources held by the Database.
	Close() error
}
