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

// Package pkcs11 provides access to private keys using a PKCS#11 interface.
// Support is compiled in with the pkcs11 build tag.
package pkcs11

// Config identifies a key held in a PKCS#11 token.
type Config struct {
	TokenLabel string `toml:"token_label"`
	PIN        string `toml:"pin"`
	// PublicKey is the PEM-encoded public half of the token key, used to
	// locate it.
	PublicKey string `toml:"public_key"`
}
