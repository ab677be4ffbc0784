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

// Package der decodes DER-encoded log signing keys. Logs sign with ECDSA over
// NIST P-256, so keys on any other curve or of any other family are refused.
package der

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"errors"
	"fmt"
)

// ErrUnsupportedKey is returned for well-formed keys that cannot sign for a
// log.
var ErrUnsupportedKey = errors.New("der: not an ECDSA P-256 key")

// UnmarshalPrivateKey reads a private key in SEC1 or PKCS#8 form.
func UnmarshalPrivateKey(keyDER []byte) (*ecdsa.PrivateKey, error) {
	key, sec1Err := x509.ParseECPrivateKey(keyDER)
	if sec1Err != nil {
		k, err := x509.ParsePKCS8PrivateKey(keyDER)
		if err != nil {
			return nil, fmt.Errorf("der: could not parse private key as SEC1 (%v) or PKCS8 (%v)", sec1Err, err)
		}
		var ok bool
		if key, ok = k.(*ecdsa.PrivateKey); !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, k)
		}
	}
	if err := checkCurve(&key.PublicKey); err != nil {
		return nil, err
	}
	return key, nil
}

// UnmarshalPublicKey reads a PKIX public key.
func UnmarshalPublicKey(keyDER []byte) (*ecdsa.PublicKey, error) {
	k, err := x509.ParsePKIXPublicKey(keyDER)
	if err != nil {
		return nil, fmt.Errorf("der: could not parse public key as PKIX (%v)", err)
	}
	pub, ok := k.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, k)
	}
	if err := checkCurve(pub); err != nil {
		return nil, err
	}
	return pub, nil
}

func checkCurve(pub *ecdsa.PublicKey) error {
	if pub.Curve != elliptic.P256() {
		return fmt.Errorf("%w: curve %s", ErrUnsupportedKey, pub.Curve.Params().Name)
	}
	return nil
}
