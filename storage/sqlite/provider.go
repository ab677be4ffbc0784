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

package sqlite

import (
	"context"
	"errors"
	"flag"

	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/storage"
	"k8s.io/klog/v2"
)

var sqlitePath = flag.String("sqlite_path", "", "Path of the SQLite record store file")

func init() {
	if err := storage.RegisterProvider("sqlite", newSQLiteStorageProvider); err != nil {
		klog.Fatalf("Failed to register storage provider sqlite: %v", err)
	}
}

type sqliteProvider struct {
	db *Database
}

func newSQLiteStorageProvider(_ monitoring.MetricFactory) (storage.Provider, error) {
	if *sqlitePath == "" {
		return nil, errors.New("--sqlite_path must be set")
	}
	sqlDB, err := OpenDB(*sqlitePath)
	if err != nil {
		return nil, err
	}
	db, err := NewDatabase(context.Background(), sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &sqliteProvider{db: db}, nil
}

func (s *sqliteProvider) Database() storage.Database[[]byte] {
	return s.db
}

func (s *sqliteProvider) Close() error {
	return s.db.Close()
}
