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

// Package provider links the record store backends into a binary. Each
// backend can be left out with a no_<name> build tag.
package provider

import (
	"slices"

	"github.com/google/ct-frontend/storage"
)

// DefaultStorageSystem is the backend used when none is configured.
var DefaultStorageSystem string

func init() {
	defaultProvider := "memory"
	providers := storage.Providers()
	if len(providers) > 0 && !slices.Contains(providers, defaultProvider) {
		defaultProvider = providers[0]
	}
	DefaultStorageSystem = defaultProvider
}
