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

// Package cache provides a read-through cache in front of a record store.
// Stored records are immutable, so cached entries never go stale.
package cache

import (
	"context"
	"encoding/hex"
	"sync/atomic"

	"github.com/google/ct-frontend/storage"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Database caches the records found in an underlying storage.Database.
// Misses are not cached.
type Database[T any] struct {
	db     storage.Database[T]
	lru    *lru.Cache[string, T]
	closed atomic.Bool
}

var _ storage.Database[[]byte] = &Database[[]byte]{}

// New returns a cache of up to size records in front of db.
func New[T any](db storage.Database[T], size int) (*Database[T], error) {
	c, err := lru.New[string, T](size)
	if err != nil {
		return nil, err
	}
	return &Database[T]{db: db, lru: c}, nil
}

// Get returns the cached record for hash, or reads it through from the
// underlying store.
func (d *Database[T]) Get(ctx context.Context, hash []byte) (T, bool, error) {
	var zero T
	if d.closed.Load() {
		return zero, false, storage.ErrClosed
	}
	key := hex.EncodeToString(hash)
	if record, ok := d.lru.Get(key); ok {
		return record, true, nil
	}
	record, ok, err := d.db.Get(ctx, hash)
	if err != nil || !ok {
		return zero, ok, err
	}
	d.lru.Add(key, record)
	return record, true, nil
}

// PutIfAbsent writes through to the underlying store, and caches record if
// it was stored.
func (d *Database[T]) PutIfAbsent(ctx context.Context, hash []byte, record T) (bool, error) {
	if d.closed.Load() {
		return false, storage.ErrClosed
	}
	inserted, err := d.db.PutIfAbsent(ctx, hash, record)
	if err != nil {
		return false, err
	}
	if inserted {
		d.lru.Add(hex.EncodeToString(hash), record)
	}
	return inserted, nil
}

// Len returns the number of cached records.
func (d *Database[T]) Len() int {
	return d.lru.Len()
}

// Close drops the cache and closes the underlying store.
func (d *Database[T]) Close() error {
	d.closed.Store(true)
	d.lru.Purge()
	return d.db.Close()
}
