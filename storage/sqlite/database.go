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

// Package sqlite provides a record store backed by an embedded SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/ct-frontend/storage"
	_ "modernc.org/sqlite" // Register the sqlite driver.
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS records (
	hash   BLOB PRIMARY KEY,
	record BLOB NOT NULL
)`
	selectRecordSQL = "SELECT record FROM records WHERE hash = ?"
	insertRecordSQL = "INSERT INTO records (hash, record) VALUES (?, ?) ON CONFLICT (hash) DO NOTHING"
)

// Database is a storage.Database of byte records held in SQLite.
type Database struct {
	db *sql.DB
}

var _ storage.Database[[]byte] = &Database{}

// OpenDB opens, and creates if needed, the SQLite database at path.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+
		"?_pragma=journal_mode(WAL)"+
		"&_pragma=busy_timeout(5000)"+
		"&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers; a small pool avoids lock contention.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewDatabase returns a store over db, creating its table if needed.
func NewDatabase(ctx context.Context, db *sql.DB) (*Database, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Database{db: db}, nil
}

// Get returns the record stored under hash.
func (d *Database) Get(ctx context.Context, hash []byte) ([]byte, bool, error) {
	var record []byte
	err := d.db.QueryRowContext(ctx, selectRecordSQL, hash).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// PutIfAbsent inserts record under hash unless a row for hash exists.
func (d *Database) PutIfAbsent(ctx context.Context, hash []byte, record []byte) (bool, error) {
	res, err := d.db.ExecContext(ctx, insertRecordSQL, hash, record)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}
