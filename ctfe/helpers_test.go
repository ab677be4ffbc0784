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

package ctfe

import (
	"strings"
	"testing"

	"github.com/google/certificate-transparency-go/x509"
	"github.com/google/ct-frontend/crypto"
	"github.com/google/ct-frontend/crypto/keys/pem"
	"github.com/google/ct-frontend/testonly"
)

// pemChain concatenates PEM certificates into a submission.
func pemChain(certs ...string) []byte {
	return []byte(strings.Join(certs, ""))
}

func mustParseChain(t *testing.T, certs ...string) []*x509.Certificate {
	t.Helper()
	chain := make([]*x509.Certificate, 0, len(certs))
	for _, c := range certs {
		chain = append(chain, testonly.MustParseCert(c))
	}
	return chain
}

// testRoots returns a pool holding only the test root CA.
func testRoots(t *testing.T) *crypto.PEMCertPool {
	t.Helper()
	roots, err := crypto.NewPEMCertPoolFromPEM([]byte(testonly.Certs().CA))
	if err != nil {
		t.Fatalf("NewPEMCertPoolFromPEM(): %v", err)
	}
	return roots
}

func testSigner(t *testing.T) *crypto.Signer {
	t.Helper()
	key, err := pem.UnmarshalPrivateKey(testonly.LogPrivateKeyPEM, testonly.LogPrivateKeyPassword)
	if err != nil {
		t.Fatalf("UnmarshalPrivateKey(): %v", err)
	}
	s, err := crypto.NewSigner(key)
	if err != nil {
		t.Fatalf("NewSigner(): %v", err)
	}
	return s
}

func wantStatus(t *testing.T, err error, want Status) {
	t.Helper()
	got, ok := StatusOf(err)
	if !ok {
		t.Fatalf("error %v carries no status, want %v", err, want)
	}
	if got != want {
		t.Fatalf("status=%v (err=%v), want %v", got, err, want)
	}
}
