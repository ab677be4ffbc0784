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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init performs the one-time setup of the crypto backend. It checks that the
// system randomness source is readable and that a P-256 ECDSA signature
// round-trips. The result is computed once and returned to every caller, so
// Init may be called concurrently and repeatedly.
func Init() error {
	initOnce.Do(func() {
		initErr = selfTest()
		if initErr != nil {
			klog.Errorf("crypto self-test failed: %v", initErr)
			return
		}
		klog.V(1).Info("crypto self-test passed")
	})
	return initErr
}

func selfTest() error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generating P-256 key: %w", err)
	}
	digest := sha256.Sum256([]byte("certificate transparency frontend self-test"))
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return fmt.Errorf("signing: %w", err)
	}
	if !ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig) {
		return errors.New("signature did not verify")
	}
	return nil
}
