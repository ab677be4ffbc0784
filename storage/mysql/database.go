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

// Package mysql provides a MySQL-based record store.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/ct-frontend/storage"
	"k8s.io/klog/v2"
)

const (
	// ER_DUP_ENTRY: Error returned by driver when inserting a duplicate row.
	errNumDuplicate = 1062

	createTableSQL = `CREATE TABLE IF NOT EXISTS Records(
  Hash   VARBINARY(64) NOT NULL,
  Record MEDIUMBLOB NOT NULL,
  PRIMARY KEY(Hash)
)`
	selectRecordSQL = "SELECT Record FROM Records WHERE Hash = ?"
	insertRecordSQL = "INSERT INTO Records(Hash, Record) VALUES(?, ?)"
)

// OpenDB opens a database handle for dbURL.
func OpenDB(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		// Don't log uri as it could contain credentials
		klog.Warningf("Could not open MySQL database, check config: %s", err)
		return nil, err
	}

	if _, err := db.ExecContext(context.TODO(), "SET sql_mode = 'STRICT_ALL_TABLES'"); err != nil {
		klog.Warningf("Failed to set strict mode on mysql db: %s", err)
		return nil, err
	}

	return db, nil
}

// Database is a storage.Database of byte records held in MySQL.
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

// PutIfAbsent inserts record under hash. A duplicate key means another
// writer stored the hash first.
func (d *Database) PutIfAbsent(ctx context.Context, hash []byte, record []byte) (bool, error) {
	if _, err := d.db.ExecContext(ctx, insertRecordSQL, hash, record); err != nil {
		if isDuplicateErr(err) {
			return false, nil
		}
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
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errNumDuplicate
}
