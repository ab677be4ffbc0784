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

package testonly

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
	"sync"
	"time"

	ctx509 "github.com/google/certificate-transparency-go/x509"
)

var (
	poisonOID            = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 3}
	precertSigningEKUOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 4}
	asn1Null             = []byte{0x05, 0x00}

	certsOnce sync.Once
	certs     *TestCerts
	certsErr  error

	serialMu sync.Mutex
	serial   int64 = 1000
)

// TestCerts holds a PKI hierarchy for exercising chain validation. All
// certificates are PEM encoded.
//
//	CA (self-signed, the only trust anchor)
//	├── Leaf
//	├── Precert (poisoned)
//	├── BadPoisonLeaf
//	├── ExpiredLeaf
//	├── InstantLeaf
//	├── InvertedLeaf
//	├── Intermediate
//	│   └── ChainLeaf
//	└── PreCA (Precertificate Signing Certificate)
//	    ├── PrecertViaPreCA (poisoned)
//	    └── LeafViaPreCA
//
// BadPoisonLeaf carries a non-critical poison extension, ExpiredLeaf is past
// its NotAfter, InstantLeaf has NotBefore equal to NotAfter, InvertedLeaf has
// NotBefore after NotAfter, and LeafViaPreCA is an ordinary certificate wrongly issued by
// the PreCA. OtherCA is an unrelated self-signed root that is not trusted, and
// UntrustedLeaf is issued by it.
type TestCerts struct {
	CA              string
	Leaf            string
	Precert         string
	BadPoisonLeaf   string
	ExpiredLeaf     string
	InstantLeaf     string
	InvertedLeaf    string
	Intermediate    string
	ChainLeaf       string
	PreCA           string
	PrecertViaPreCA string
	LeafViaPreCA    string
	OtherCA         string
	UntrustedLeaf   string
}

// Certs returns the shared test hierarchy, generating it on first use.
// Generation happens at test time so the certificates never expire.
func Certs() *TestCerts {
	certsOnce.Do(func() {
		certs, certsErr = generate()
	})
	if certsErr != nil {
		panic(fmt.Sprintf("failed to generate test certificates: %v", certsErr))
	}
	return certs
}

type issuer struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
}

func nextSerial() *big.Int {
	serialMu.Lock()
	defer serialMu.Unlock()
	serial++
	return big.NewInt(serial)
}

func template(cn string, notBefore, notAfter time.Time) *x509.Certificate {
	return &x509.Certificate{
		SerialNumber: nextSerial(),
		Subject:      pkix.Name{CommonName: cn, Organization: []string{"CT Frontend Test"}},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
	}
}

func caTemplate(cn string, notBefore, notAfter time.Time) *x509.Certificate {
	t := template(cn, notBefore, notAfter)
	t.IsCA = true
	t.BasicConstraintsValid = true
	t.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	return t
}

func leafTemplate(cn string, notBefore, notAfter time.Time) *x509.Certificate {
	t := template(cn, notBefore, notAfter)
	t.KeyUsage = x509.KeyUsageDigitalSignature
	t.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
	t.DNSNames = []string{cn}
	return t
}

func poison(t *x509.Certificate, critical bool) *x509.Certificate {
	t.ExtraExtensions = append(t.ExtraExtensions, pkix.Extension{Id: poisonOID, Critical: critical, Value: asn1Null})
	return t
}

// create signs tmpl with parent, or self-signs it when parent is nil.
func create(tmpl *x509.Certificate, parent *issuer) (*issuer, string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, "", err
	}
	signer := &issuer{cert: tmpl, key: key}
	if parent != nil {
		signer = parent
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, signer.cert, &key.PublicKey, signer.key)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %v", tmpl.Subject.CommonName, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, "", err
	}
	return &issuer{cert: cert, key: key}, string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})), nil
}

func generate() (*TestCerts, error) {
	now := time.Now()
	notBefore, notAfter := now.Add(-time.Hour), now.Add(365*24*time.Hour)
	tc := &TestCerts{}

	ca, pemCA, err := create(caTemplate("Test Root CA", notBefore, notAfter), nil)
	if err != nil {
		return nil, err
	}
	tc.CA = pemCA

	preCATmpl := caTemplate("Test Precertificate Signing CA", notBefore, notAfter)
	preCATmpl.UnknownExtKeyUsage = []asn1.ObjectIdentifier{precertSigningEKUOID}
	expired := leafTemplate("expired.example.com", now.Add(-2*365*24*time.Hour), now.Add(-365*24*time.Hour))
	instant := now.Truncate(time.Second)

	var intermediate, preCA, otherCA *issuer
	// Steps run in order; parent points at an issuer produced by an earlier
	// step, or is nil for a self-signed certificate.
	steps := []struct {
		tmpl   *x509.Certificate
		parent **issuer
		out    *string
		keep   **issuer
	}{
		{leafTemplate("leaf.example.com", notBefore, notAfter), &ca, &tc.Leaf, nil},
		{poison(leafTemplate("precert.example.com", notBefore, notAfter), true), &ca, &tc.Precert, nil},
		{poison(leafTemplate("bad-poison.example.com", notBefore, notAfter), false), &ca, &tc.BadPoisonLeaf, nil},
		{expired, &ca, &tc.ExpiredLeaf, nil},
		{leafTemplate("instant.example.com", instant, instant), &ca, &tc.InstantLeaf, nil},
		{leafTemplate("inverted.example.com", instant, instant.Add(-time.Hour)), &ca, &tc.InvertedLeaf, nil},
		{caTemplate("Test Intermediate CA", notBefore, notAfter), &ca, &tc.Intermediate, &intermediate},
		{leafTemplate("chain.example.com", notBefore, notAfter), &intermediate, &tc.ChainLeaf, nil},
		{preCATmpl, &ca, &tc.PreCA, &preCA},
		{poison(leafTemplate("precert-preca.example.com", notBefore, notAfter), true), &preCA, &tc.PrecertViaPreCA, nil},
		{leafTemplate("leaf-preca.example.com", notBefore, notAfter), &preCA, &tc.LeafViaPreCA, nil},
		{caTemplate("Untrusted Root CA", notBefore, notAfter), nil, &tc.OtherCA, &otherCA},
		{leafTemplate("untrusted.example.com", notBefore, notAfter), &otherCA, &tc.UntrustedLeaf, nil},
	}
	for _, s := range steps {
		var parent *issuer
		if s.parent != nil {
			parent = *s.parent
		}
		iss, p, err := create(s.tmpl, parent)
		if err != nil {
			return nil, err
		}
		*s.out = p
		if s.keep != nil {
			*s.keep = iss
		}
	}
	return tc, nil
}

// MustParseCert parses the single PEM certificate in data with the CT x509
// library. It panics on failure.
func MustParseCert(data string) *ctx509.Certificate {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		panic("no PEM block found")
	}
	cert, err := ctx509.ParseCertificate(block.Bytes)
	if ctx509.IsFatal(err) {
		panic(err)
	}
	return cert
}
