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

package crypto

import (
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/ct-frontend/testonly"
)

const corruptBlock = "-----BEGIN CERTIFICATE-----\n!!!not base64!!!\n-----END CERTIFICATE-----\n"

func TestNewPEMCertPoolFromPEM(t *testing.T) {
	certs := testonly.Certs()
	withHeaders := string(pem.EncodeToMemory(&pem.Block{
		Type:    "CERTIFICATE",
		Headers: map[string]string{"Proc-Type": "4,ENCRYPTED"},
		Bytes:   testonly.MustParseCert(certs.CA).Raw,
	}))
	for _, test := range []struct {
		desc    string
		pem     string
		wantLen int
		wantErr string
	}{
		{desc: "single", pem: certs.CA, wantLen: 1},
		{desc: "two", pem: certs.CA + certs.OtherCA, wantLen: 2},
		{desc: "duplicate", pem: certs.CA + certs.CA, wantLen: 1},
		{desc: "with key block", pem: testonly.LogPublicKeyPEM + "\n" + certs.CA, wantLen: 1},
		{desc: "empty", pem: "", wantErr: "no certificates"},
		{desc: "key only", pem: testonly.LogPublicKeyPEM, wantErr: "no certificates"},
		{
			desc:    "garbage certificate",
			pem:     "-----BEGIN CERTIFICATE-----\nMIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8A\n-----END CERTIFICATE-----\n",
			wantErr: "error parsing",
		},
		{
			desc:    "corrupt block between roots",
			pem:     certs.CA + corruptBlock + certs.OtherCA,
			wantErr: "malformed PEM block",
		},
		{desc: "trailing text", pem: certs.CA + "trailing junk that is not PEM", wantErr: "not PEM"},
		{desc: "leading text", pem: "junk\n" + certs.CA, wantErr: "not PEM"},
		{desc: "truncated", pem: certs.CA + certs.OtherCA[:len(certs.OtherCA)-30], wantErr: "malformed PEM block"},
		{desc: "certificate with headers", pem: withHeaders, wantErr: "headers"},
	} {
		t.Run(test.desc, func(t *testing.T) {
			p, err := NewPEMCertPoolFromPEM([]byte(test.pem))
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("NewPEMCertPoolFromPEM()=%v, want error containing %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPEMCertPoolFromPEM(): %v", err)
			}
			if got := p.Len(); got != test.wantLen {
				t.Errorf("Len()=%d, want %d", got, test.wantLen)
			}
		})
	}
}

func TestPEMCertPoolLookups(t *testing.T) {
	certs := testonly.Certs()
	p, err := NewPEMCertPoolFromPEM([]byte(certs.CA + certs.OtherCA))
	if err != nil {
		t.Fatalf("NewPEMCertPoolFromPEM(): %v", err)
	}
	ca := testonly.MustParseCert(certs.CA)
	other := testonly.MustParseCert(certs.OtherCA)
	leaf := testonly.MustParseCert(certs.Leaf)

	if !p.Includes(ca) || !p.Includes(other) {
		t.Errorf("Includes(anchor)=false, want true")
	}
	if p.Includes(leaf) {
		t.Errorf("Includes(leaf)=true, want false")
	}

	got := p.BySubject(leaf.RawIssuer)
	if len(got) != 1 || !got[0].Equal(ca) {
		t.Errorf("BySubject(leaf issuer)=%v, want [CA]", got)
	}
	if got := p.BySubject(leaf.RawSubject); len(got) != 0 {
		t.Errorf("BySubject(leaf subject) returned %d certs, want 0", len(got))
	}
}

func TestNextPEMBlock(t *testing.T) {
	certs := testonly.Certs()
	for _, test := range []struct {
		desc     string
		data     string
		wantErr  error
		wantRest string
	}{
		{desc: "one block", data: certs.CA},
		{desc: "surrounding whitespace", data: "\n \t" + certs.CA + "\r\n\n"},
		{desc: "two blocks", data: certs.CA + "\n" + certs.OtherCA, wantRest: certs.OtherCA},
		{desc: "empty", data: "", wantErr: ErrNotPEM},
		{desc: "leading text", data: "junk" + certs.CA, wantErr: ErrNotPEM},
		{desc: "corrupt then valid", data: corruptBlock + certs.OtherCA, wantErr: ErrMalformedPEM},
		{desc: "no end line", data: "-----BEGIN CERTIFICATE-----\nAAAA\n", wantErr: ErrMalformedPEM},
	} {
		t.Run(test.desc, func(t *testing.T) {
			block, rest, err := NextPEMBlock([]byte(test.data))
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("NextPEMBlock()=%v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextPEMBlock(): %v", err)
			}
			if block.Type != "CERTIFICATE" {
				t.Errorf("block.Type=%q, want CERTIFICATE", block.Type)
			}
			if got := string(rest); got != strings.TrimLeft(test.wantRest, " \t\r\n") {
				t.Errorf("rest=%q, want %q", got, test.wantRest)
			}
		})
	}
}

func TestLoadPEMCertPool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roots.pem")
	if err := os.WriteFile(path, []byte(testonly.Certs().CA), 0o644); err != nil {
		t.Fatalf("WriteFile(): %v", err)
	}
	p, err := LoadPEMCertPool(path)
	if err != nil {
		t.Fatalf("LoadPEMCertPool(): %v", err)
	}
	if got, want := p.Len(), 1; got != want {
		t.Errorf("Len()=%d, want %d", got, want)
	}

	if _, err := LoadPEMCertPool(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("LoadPEMCertPool(missing)=nil, want error")
	}

	empty := filepath.Join(dir, "empty.pem")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile(): %v", err)
	}
	if _, err := LoadPEMCertPool(empty); err == nil {
		t.Error("LoadPEMCertPool(empty)=nil, want error")
	}

	corrupt := filepath.Join(dir, "corrupt.pem")
	if err := os.WriteFile(corrupt, []byte(testonly.Certs().CA+corruptBlock+testonly.Certs().OtherCA), 0o644); err != nil {
		t.Fatalf("WriteFile(): %v", err)
	}
	if _, err := LoadPEMCertPool(corrupt); !errors.Is(err, ErrMalformedPEM) {
		t.Errorf("LoadPEMCertPool(corrupt)=%v, want %v", err, ErrMalformedPEM)
	}
}
