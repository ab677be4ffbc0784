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

package file

import (
	"errors"
	"flag"

	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/storage"
	"k8s.io/klog/v2"
)

var (
	fileStorageDir   = flag.String("file_storage_dir", "", "Directory holding the file record store")
	fileStorageDepth = flag.Int("file_storage_depth", 3, "Number of directory levels used to shard the file record store")
)

func init() {
	if err := storage.RegisterProvider("file", newFileStorageProvider); err != nil {
		klog.Fatalf("Failed to register storage provider file: %v", err)
	}
}

type fileProvider struct {
	db *Database
}

func newFileStorageProvider(_ monitoring.MetricFactory) (storage.Provider, error) {
	if *fileStorageDir == "" {
		return nil, errors.New("--file_storage_dir must be set")
	}
	db, err := NewDatabase(*fileStorageDir, *fileStorageDepth)
	if err != nil {
		return nil, err
	}
	return &fileProvider{db: db}, nil
}

func (s *fileProvider) Database() storage.Database[[]byte] {
	return s.db
}

func (s *fileProvider) Close() error {
	return s.db.Close()
}
