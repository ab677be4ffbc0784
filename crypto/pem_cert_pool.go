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
	"bytes"
	"crypto/sha256"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/google/certificate-transparency-go/x509"
	"k8s.io/klog/v2"
)

const pemWhitespace = " \t\r\n"

var (
	pemStart = []byte("-----BEGIN ")

	// ErrNotPEM is returned by NextPEMBlock when data does not start with a
	// PEM block.
	ErrNotPEM = errors.New("data is not PEM")
	// ErrMalformedPEM is returned by NextPEMBlock for a block that cannot
	// be decoded.
	ErrMalformedPEM = errors.New("malformed PEM block")
)

// NextPEMBlock decodes the PEM block at the start of data, after any
// whitespace, and returns it with the remaining data. Unlike pem.Decode it
// never skips over text or corrupt blocks to find a later block.
func NextPEMBlock(data []byte) (*pem.Block, []byte, error) {
	data = bytes.TrimLeft(data, pemWhitespace)
	if !bytes.HasPrefix(data, pemStart) {
		return nil, nil, ErrNotPEM
	}
	block, rest := pem.Decode(data)
	// After a corrupt block pem.Decode resumes at the next BEGIN line, so a
	// good decode consumes exactly one.
	if block == nil || bytes.Count(data[:len(data)-len(rest)], pemStart) != 1 {
		return nil, nil, ErrMalformedPEM
	}
	return block, bytes.TrimLeft(rest, pemWhitespace), nil
}

// PEMCertPool is an immutable set of trust anchors loaded from PEM data. It
// is populated only by its constructors, so it can be shared between
// goroutines without locking.
type PEMCertPool struct {
	// maps from sha-256 fingerprint to certificate, used for dup detection
	fingerprintToCertMap map[[sha256.Size]byte]*x509.Certificate
	bySubject            map[string][]*x509.Certificate
}

func newPEMCertPool() *PEMCertPool {
	return &PEMCertPool{
		fingerprintToCertMap: make(map[[sha256.Size]byte]*x509.Certificate),
		bySubject:            make(map[string][]*x509.Certificate),
	}
}

// LoadPEMCertPool reads the trust anchors held in the PEM file at path. It is
// an error for the file to hold no certificates, any data that is not a
// well-formed PEM block, or any certificate that fails to parse.
func LoadPEMCertPool(path string) (*PEMCertPool, error) {
	pemCerts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trusted roots: %w", err)
	}
	p, err := NewPEMCertPoolFromPEM(pemCerts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// NewPEMCertPoolFromPEM builds a pool from PEM data holding one or more
// certificates. Well-formed blocks of other types are skipped.
func NewPEMCertPoolFromPEM(pemCerts []byte) (*PEMCertPool, error) {
	p := newPEMCertPool()
	if err := p.appendCertsFromPEM(pemCerts); err != nil {
		return nil, err
	}
	return p, nil
}

// addCert adds a certificate to a pool. Uses fingerprint to weed out duplicates.
func (p *PEMCertPool) addCert(cert *x509.Certificate) {
	fingerprint := sha256.Sum256(cert.Raw)
	if _, ok := p.fingerprintToCertMap[fingerprint]; ok {
		return
	}
	p.fingerprintToCertMap[fingerprint] = cert
	p.bySubject[string(cert.RawSubject)] = append(p.bySubject[string(cert.RawSubject)], cert)
}

func (p *PEMCertPool) appendCertsFromPEM(pemCerts []byte) error {
	found := false
	rest := bytes.TrimLeft(pemCerts, pemWhitespace)
	for i := 0; len(rest) > 0; i++ {
		var block *pem.Block
		var err error
		block, rest, err = NextPEMBlock(rest)
		if err != nil {
			return fmt.Errorf("PEM block %d: %w", i, err)
		}
		if block.Type != "CERTIFICATE" {
			klog.V(1).Infof("skipping %q block %d in trusted roots", block.Type, i)
			continue
		}
		if len(block.Headers) != 0 {
			return fmt.Errorf("PEM block %d: certificate has headers", i)
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if x509.IsFatal(err) {
			return fmt.Errorf("error parsing PEM certificate: %w", err)
		} else if err != nil {
			klog.Warningf("non-fatal error parsing trusted root %q: %v", cert.Subject, err)
		}

		p.addCert(cert)
		found = true
	}
	if !found {
		return errors.New("no certificates found")
	}
	return nil
}

// Includes reports whether cert is one of the trust anchors.
func (p *PEMCertPool) Includes(cert *x509.Certificate) bool {
	_, ok := p.fingerprintToCertMap[sha256.Sum256(cert.Raw)]
	return ok
}

// BySubject returns the trust anchors whose DER-encoded subject is
// rawSubject.
func (p *PEMCertPool) BySubject(rawSubject []byte) []*x509.Certificate {
	return p.bySubject[string(rawSubject)]
}

// Len returns the number of distinct trust anchors.
func (p *PEMCertPool) Len() int {
	return len(p.fingerprintToCertMap)
}
