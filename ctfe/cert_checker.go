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
	"bytes"
	"crypto/sha256"

	"github.com/google/certificate-transparency-go/x509"
	"github.com/google/ct-frontend/crypto"
	"github.com/google/ct-frontend/util/clock"
)

// DefaultMaxChainLength is the longest chain accepted when CheckerOptions
// does not set one.
const DefaultMaxChainLength = 10

// Byte representation of ASN.1 NULL.
var asn1NullBytes = []byte{0x05, 0x00}

// CheckerOptions tunes the policy of a CertChecker.
type CheckerOptions struct {
	// RejectExpired rejects chains whose leaf has expired.
	RejectExpired bool
	// MaxChainLength bounds the number of submitted certificates. Zero means
	// DefaultMaxChainLength.
	MaxChainLength int
	// TimeSource is consulted for RejectExpired. Defaults to clock.System.
	TimeSource clock.TimeSource
}

// ClassifiedChain is a chain that links to a trust anchor.
type ClassifiedChain struct {
	// Chain is the submitted chain, leaf first, followed by the trust anchor
	// if it was not submitted.
	Chain []*x509.Certificate
	// IsPrecert is set when the leaf is a pre-certificate.
	IsPrecert bool
	// PrecertSigner is the Precertificate Signing Certificate at Chain[1], if
	// the pre-certificate was issued by one.
	PrecertSigner *x509.Certificate
	// AnchorAppended is set when the trust anchor was added from the roots.
	AnchorAppended bool
}

// Leaf returns the end-entity certificate.
func (c *ClassifiedChain) Leaf() *x509.Certificate {
	return c.Chain[0]
}

// CertChecker verifies that submitted chains link to a trusted root, and
// classifies them as certificates or pre-certificates.
type CertChecker struct {
	roots *crypto.PEMCertPool
	opts  CheckerOptions
}

// NewCertChecker returns a CertChecker anchored on roots.
func NewCertChecker(roots *crypto.PEMCertPool, opts CheckerOptions) *CertChecker {
	if opts.MaxChainLength <= 0 {
		opts.MaxChainLength = DefaultMaxChainLength
	}
	if opts.TimeSource == nil {
		opts.TimeSource = clock.System
	}
	return &CertChecker{roots: roots, opts: opts}
}

// Roots returns the trust anchors of the checker.
func (c *CertChecker) Roots() *crypto.PEMCertPool {
	return c.roots
}

// Validate checks the linkage of chain, anchors it on the trusted roots and
// classifies it. The submitted order is never changed. All failures are
// *SubmitError with status InvalidCertificateChain or UnknownRoot.
func (c *CertChecker) Validate(chain []*x509.Certificate) (*ClassifiedChain, error) {
	if len(chain) == 0 {
		return nil, submitErrorf(InvalidCertificateChain, "empty chain")
	}
	if len(chain) > c.opts.MaxChainLength {
		return nil, submitErrorf(InvalidCertificateChain, "chain of %d certificates exceeds maximum of %d", len(chain), c.opts.MaxChainLength)
	}

	seen := make(map[[sha256.Size]byte]bool)
	for i, cert := range chain {
		fp := sha256.Sum256(cert.Raw)
		if seen[fp] {
			return nil, submitErrorf(InvalidCertificateChain, "certificate %d appears more than once", i)
		}
		seen[fp] = true
		if !validitySane(cert) {
			return nil, submitErrorf(InvalidCertificateChain, "certificate %d has NotBefore after NotAfter", i)
		}
	}

	for i := 0; i+1 < len(chain); i++ {
		if err := checkIssuedBy(chain[i], chain[i+1]); err != nil {
			return nil, submitErrorf(InvalidCertificateChain, "certificate %d is not issued by certificate %d: %v", i, i+1, err)
		}
	}

	result := &ClassifiedChain{Chain: chain}
	if last := chain[len(chain)-1]; !c.roots.Includes(last) {
		anchor := c.findAnchor(last)
		if anchor == nil {
			return nil, submitErrorf(UnknownRoot, "no trusted root issued %q", last.Issuer)
		}
		if !validitySane(anchor) {
			return nil, submitErrorf(InvalidCertificateChain, "trust anchor %q has NotBefore after NotAfter", anchor.Subject)
		}
		result.Chain = append(append(make([]*x509.Certificate, 0, len(chain)+1), chain...), anchor)
		result.AnchorAppended = true
	}

	if err := c.classify(result); err != nil {
		return nil, err
	}

	if c.opts.RejectExpired {
		if now := c.opts.TimeSource.Now(); now.After(result.Leaf().NotAfter) {
			return nil, submitErrorf(InvalidCertificateChain, "leaf expired at %v", result.Leaf().NotAfter)
		}
	}
	return result, nil
}

// findAnchor returns a trusted root whose key verifies cert, or nil.
func (c *CertChecker) findAnchor(cert *x509.Certificate) *x509.Certificate {
	for _, root := range c.roots.BySubject(cert.RawIssuer) {
		if err := cert.CheckSignatureFrom(root); err == nil {
			return root
		}
	}
	return nil
}

func (c *CertChecker) classify(cc *ClassifiedChain) error {
	isPrecert, err := isPrecertificate(cc.Leaf())
	if err != nil {
		return submitErrorf(InvalidCertificateChain, "leaf: %v", err)
	}
	for i, cert := range cc.Chain[1:] {
		if hasPoison(cert) {
			return submitErrorf(InvalidCertificateChain, "certificate %d is poisoned but is not the leaf", i+1)
		}
		if i > 0 && isPreIssuer(cert) {
			return submitErrorf(InvalidCertificateChain, "precertificate signing certificate at position %d", i+1)
		}
	}

	if len(cc.Chain) > 1 && isPreIssuer(cc.Chain[1]) {
		if !isPrecert {
			return submitErrorf(InvalidCertificateChain, "precertificate signing certificate issued a non-precertificate")
		}
		if len(cc.Chain) < 3 {
			return submitErrorf(InvalidCertificateChain, "precertificate signing certificate is not issued by a CA in the chain")
		}
		cc.PrecertSigner = cc.Chain[1]
	}
	cc.IsPrecert = isPrecert
	return nil
}

func checkIssuedBy(cert, issuer *x509.Certificate) error {
	if !bytes.Equal(cert.RawIssuer, issuer.RawSubject) {
		return errIssuerMismatch
	}
	return cert.CheckSignatureFrom(issuer)
}

// validitySane reports whether cert has a non-empty validity window. Both
// bounds are inclusive, so NotBefore == NotAfter is one valid second.
func validitySane(cert *x509.Certificate) bool {
	return !cert.NotAfter.Before(cert.NotBefore)
}

func hasPoison(cert *x509.Certificate) bool {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(x509.OIDExtensionCTPoison) {
			return true
		}
	}
	return false
}

// isPrecertificate tests if a certificate is a pre-certificate as defined in
// RFC 6962. An error is returned if the poison extension is present but is
// not critical or not ASN.1 NULL.
func isPrecertificate(cert *x509.Certificate) (bool, error) {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(x509.OIDExtensionCTPoison) {
			if !ext.Critical || !bytes.Equal(asn1NullBytes, ext.Value) {
				return false, errMalformedPoison
			}
			return true, nil
		}
	}
	return false, nil
}

// isPreIssuer reports whether cert is a Precertificate Signing Certificate.
func isPreIssuer(cert *x509.Certificate) bool {
	for _, eku := range cert.ExtKeyUsage {
		if eku == x509.ExtKeyUsageCertificateTransparency {
			return true
		}
	}
	return false
}
