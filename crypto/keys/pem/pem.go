// Copyright 2017 Google LLC. All Rights Reserved.
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

// Package pem loads log signing keys from PEM-encoded data.
package pem

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/google/ct-frontend/crypto/keys/der"
)

// ReadPrivateKeyFile reads a password-protected PEM private key from a file.
// Unencrypted key files are refused.
func ReadPrivateKeyFile(file, password string) (*ecdsa.PrivateKey, error) {
	if password == "" {
		return nil, fmt.Errorf("pem: empty password for key file %q", file)
	}
	keyPEM, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("pem: reading key file: %w", err)
	}
	k, err := UnmarshalPrivateKey(string(keyPEM), password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return k, nil
}

// UnmarshalPrivateKey decodes a single PEM private key block, decrypting it
// with password when one is given.
func UnmarshalPrivateKey(keyPEM, password string) (*ecdsa.PrivateKey, error) {
	block, err := decodeOne(keyPEM)
	if err != nil {
		return nil, err
	}
	keyDER := block.Bytes
	if password != "" {
		// Legacy RFC 1423 encryption is what existing log key files use.
		keyDER, err = x509.DecryptPEMBlock(block, []byte(password)) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("pem: failed to decrypt: %w", err)
		}
	}
	return der.UnmarshalPrivateKey(keyDER)
}

// ReadPublicKeyFile reads a PEM public key from a file.
func ReadPublicKeyFile(file string) (*ecdsa.PublicKey, error) {
	keyPEM, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("pem: reading key file: %w", err)
	}
	return UnmarshalPublicKey(string(keyPEM))
}

// UnmarshalPublicKey decodes a single PEM public key block.
func UnmarshalPublicKey(keyPEM string) (*ecdsa.PublicKey, error) {
	block, err := decodeOne(keyPEM)
	if err != nil {
		return nil, err
	}
	return der.UnmarshalPublicKey(block.Bytes)
}

func decodeOne(data string) (*pem.Block, error) {
	block, rest := pem.Decode([]byte(data))
	if block == nil {
		return nil, errors.New("pem: no PEM block found")
	}
	if len(rest) > 0 {
		return nil, errors.New("pem: extra data found after first PEM block")
	}
	return block, nil
}
