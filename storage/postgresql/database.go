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

// Package postgresql provides a PostgreSQL-based record store.
package postgresql

import (
	"context"
	"errors"
	"sync"

	"github.com/google/ct-frontend/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"k8s.io/klog/v2"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS records(
  hash   BYTEA NOT NULL PRIMARY KEY,
  record BYTEA NOT NULL
)`
	selectRecordSQL = "SELECT record FROM records WHERE hash = $1"
	insertRecordSQL = "INSERT INTO records(hash, record) VALUES($1, $2) ON CONFLICT (hash) DO NOTHING"
)

// OpenDB opens a connection pool for dbURL.
func OpenDB(dbURL string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(context.TODO(), dbURL)
	if err != nil {
		// Don't log uri as it could contain credentials
		klog.Warningf("Could not open PostgreSQL database, check config: %s", err)
		return nil, err
	}

	return db, nil
}

// Database is a storage.Database of byte records held in PostgreSQL.
type Database struct {
	db *pgxpool.Pool

	mu     sync.RWMutex
	closed bool
}

var _ storage.Database[[]byte] = &Database{}

// NewDatabase returns a store over db, creating its table if needed.
func NewDatabase(ctx context.Context, db *pgxpool.Pool) (*Database, error) {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Get returns the record stored under hash.
func (d *Database) Get(ctx context.Context, hash []byte) ([]byte, bool, error) {
	if d.isClosed() {
		return nil, false, storage.ErrClosed
	}
	var record []byte
	err := d.db.QueryRow(ctx, selectRecordSQL, hash).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// PutIfAbsent inserts record under hash unless a row for hash exists.
func (d *Database) PutIfAbsent(ctx context.Context, hash []byte, record []byte) (bool, error) {
	if d.isClosed() {
		return false, storage.ErrClosed
	}
	tag, err := d.db.Exec(ctx, insertRecordSQL, hash, record)
	if err != nil {
		klog.Warningf("Error inserting record: %s", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		d.db.Close()
	}
	return nil
}
