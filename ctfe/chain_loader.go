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
	"errors"

	"github.com/google/certificate-transparency-go/x509"
	"github.com/google/ct-frontend/crypto"
	"k8s.io/klog/v2"
)

const pemWhitespace = " \t\r\n"

// LoadChain decodes a submission of concatenated PEM certificates, leaf
// first. Only whitespace may appear between and around the blocks. No trust
// evaluation is performed.
func LoadChain(data []byte) ([]*x509.Certificate, error) {
	rest := bytes.Trim(data, pemWhitespace)
	if len(rest) == 0 {
		return nil, submitErrorf(EmptySubmission, "no data submitted")
	}

	var chain []*x509.Certificate
	for len(rest) > 0 {
		block, next, err := crypto.NextPEMBlock(rest)
		if errors.Is(err, crypto.ErrNotPEM) {
			return nil, submitErrorf(InvalidPEMEncodedChain, "unexpected data after %d certificate(s)", len(chain))
		} else if err != nil {
			return nil, submitErrorf(InvalidPEMEncodedChain, "malformed PEM block after %d certificate(s)", len(chain))
		}
		if block.Type != "CERTIFICATE" || len(block.Headers) != 0 {
			return nil, submitErrorf(InvalidPEMEncodedChain, "unexpected PEM block %q at position %d", block.Type, len(chain))
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if x509.IsFatal(err) {
			return nil, submitErrorf(InvalidPEMEncodedChain, "certificate %d: %v", len(chain), err)
		} else if err != nil {
			klog.V(2).Infof("non-fatal error parsing certificate %d: %v", len(chain), err)
		}
		chain = append(chain, cert)
		rest = next
	}
	return chain, nil
}
