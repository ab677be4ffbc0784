// Copyright 2017 Google Inc. All Rights Reserved.
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
	"crypto"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"fmt"
	"math/big"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
)

// VerifyStatus is the outcome of a signature verification.
type VerifyStatus int

// Verification outcomes.
const (
	VerifyOK VerifyStatus = iota
	HashAlgorithmMismatch
	SignatureAlgorithmMismatch
	InvalidSignature
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyOK:
		return "OK"
	case HashAlgorithmMismatch:
		return "HASH_ALGORITHM_MISMATCH"
	case SignatureAlgorithmMismatch:
		return "SIGNATURE_ALGORITHM_MISMATCH"
	case InvalidSignature:
		return "INVALID_SIGNATURE"
	}
	return fmt.Sprintf("VerifyStatus(%d)", int(s))
}

// SignatureVerifier checks DigitallySigned structures against one public key.
type SignatureVerifier interface {
	Verify(data []byte, sig ct.DigitallySigned) VerifyStatus
	KeyID() [sha256.Size]byte
}

// Verifier checks signatures produced by a Signer holding the matching
// private key.
type Verifier struct {
	pub   *ecdsa.PublicKey
	keyID [sha256.Size]byte
}

// NewVerifier returns a Verifier for pub, which must be an ECDSA key.
func NewVerifier(pub crypto.PublicKey) (*Verifier, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}
	keyID, err := KeyID(ecPub)
	if err != nil {
		return nil, err
	}
	return &Verifier{pub: ecPub, keyID: keyID}, nil
}

// KeyID returns the CT key identifier of the verification key.
func (v *Verifier) KeyID() [sha256.Size]byte {
	return v.keyID
}

// Verify checks that sig declares the algorithms of this Verifier and that it
// is a valid signature over data.
func (v *Verifier) Verify(data []byte, sig ct.DigitallySigned) VerifyStatus {
	if sig.Algorithm.Hash != tls.SHA256 {
		return HashAlgorithmMismatch
	}
	if sig.Algorithm.Signature != tls.ECDSA {
		return SignatureAlgorithmMismatch
	}
	digest := sha256.Sum256(data)
	if !verifyECDSA(v.pub, digest[:], sig.Signature) {
		return InvalidSignature
	}
	return VerifyOK
}

func verifyECDSA(pub *ecdsa.PublicKey, hashed, sig []byte) bool {
	var ecdsaSig struct {
		R, S *big.Int
	}
	rest, err := asn1.Unmarshal(sig, &ecdsaSig)
	if err != nil || len(rest) != 0 {
		return false
	}
	if ecdsaSig.R == nil || ecdsaSig.S == nil {
		return false
	}
	return ecdsa.Verify(pub, hashed, ecdsaSig.R, ecdsaSig.S)
}
