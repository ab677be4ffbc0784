// Copyright 2016 Google Inc. All Rights Reserved.
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

// Package crypto provides the signing, verification and trust-anchor
// primitives of the CT frontend.
package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"io"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
)

// ErrUnsupportedKey is returned when a key is not of the single supported
// family, ECDSA.
var ErrUnsupportedKey = errors.New("unsupported key algorithm")

// Signer produces CT DigitallySigned structures with one ECDSA key. The hash
// and signature algorithms are fixed to SHA-256 and ECDSA.
type Signer struct {
	signer crypto.Signer
	keyID  [sha256.Size]byte
}

// NewSigner returns a Signer bound to key. It fails with ErrUnsupportedKey
// unless key holds an ECDSA key.
func NewSigner(key crypto.Signer) (*Signer, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key.Public())
	}
	keyID, err := KeyID(pub)
	if err != nil {
		return nil, err
	}
	return &Signer{signer: key, keyID: keyID}, nil
}

// KeyID returns the SHA-256 hash of the DER SubjectPublicKeyInfo of the
// signing key. This is the CT v1 log ID.
func (s *Signer) KeyID() [sha256.Size]byte {
	return s.keyID
}

// Public returns the public key that can verify signatures produced by s.
func (s *Signer) Public() crypto.PublicKey {
	return s.signer.Public()
}

// Sign obtains a signature after first hashing the input data.
func (s *Signer) Sign(data []byte) (ct.DigitallySigned, error) {
	digest := sha256.Sum256(data)
	sig, err := s.signer.Sign(rand.Reader, digest[:], crypto.SHA256)
	if err != nil {
		return ct.DigitallySigned{}, fmt.Errorf("signing failed: %w", err)
	}
	return ct.DigitallySigned{
		Algorithm: tls.SignatureAndHashAlgorithm{
			Hash:      tls.SHA256,
			Signature: tls.ECDSA,
		},
		Signature: sig,
	}, nil
}

// Close releases the underlying key if it holds external resources, such as
// a PKCS#11 session.
func (s *Signer) Close() error {
	switch k := s.signer.(type) {
	case io.Closer:
		return k.Close()
	case interface{ Destroy() error }:
		return k.Destroy()
	}
	return nil
}

// KeyID computes the CT key identifier of pub.
func KeyID(pub crypto.PublicKey) ([sha256.Size]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("marshaling public key: %w", err)
	}
	return sha256.Sum256(der), nil
}
