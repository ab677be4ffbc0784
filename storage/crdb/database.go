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

// Package crdb provides a CockroachDB-based record store.
package crdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cockroachdb/cockroach-go/v2/crdb"
	"github.com/google/ct-frontend/storage"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"k8s.io/klog/v2"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS records(
  hash   BYTES NOT NULL PRIMARY KEY,
  record BYTES NOT NULL
)`
	selectRecordSQL = "SELECT record FROM records WHERE hash = $1"
	insertRecordSQL = "INSERT INTO records(hash, record) VALUES($1, $2)"
)

// OpenDB opens a database handle for dbURL and checks that it is reachable.
func OpenDB(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		klog.Warningf("Failed to open CRDB database: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		klog.Warningf("failed verifying database connection: %v", err)
		db.Close()
		return nil, err
	}

	return db, nil
}

// Database is a storage.Database of byte records held in CockroachDB.
type Database struct {
	db *sql.DB
}

var _ storage.Database[[]byte] = &Database{}

// NewDatabase returns a store over db, creating its table if needed.
func NewDatabase(db *sql.DB) (*Database, error) {
	if _, err := db.ExecContext(context.TODO(), createTableSQL); err != nil {
		return nil, err
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

// PutIfAbsent inserts record under hash in a transaction that is retried on
// serialization conflicts. A unique violation means another writer stored
// the hash first.
func (d *Database) PutIfAbsent(ctx context.Context, hash []byte, record []byte) (bool, error) {
	err := crdb.ExecuteTx(ctx, d.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertRecordSQL, hash, record)
		return err
	})
	if isDuplicateErr(err) {
		return false, nil
	}
	if err != nil {
		klog.Warningf("Error inserting record: %s", err)
		return false, err
	}
	return true, nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}

func isDuplicateErr(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
