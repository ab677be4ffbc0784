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
	"context"
	"encoding/base64"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/google/ct-frontend/crypto"
)

// Frontend accepts PEM chains and returns SCTs for them.
type Frontend struct {
	handler *SubmissionHandler
	signer  *FrontendSigner
}

// NewFrontend returns a Frontend that validates with handler and issues
// SCTs with signer.
func NewFrontend(handler *SubmissionHandler, signer *FrontendSigner) *Frontend {
	return &Frontend{handler: handler, signer: signer}
}

// Submit validates the chain in data as an entry of the given kind and
// returns its SCT.
func (f *Frontend) Submit(ctx context.Context, data []byte, kind ct.LogEntryType) (SubmitResult, *ct.SignedCertificateTimestamp, error) {
	entry, err := f.handler.ProcessSubmission(data, kind)
	if err != nil {
		return New, nil, err
	}
	return f.signer.QueueEntry(ctx, entry)
}

// Close releases the log signer.
func (f *Frontend) Close() error {
	return f.signer.Close()
}

// AddChainResponse renders sct the way the add-chain and add-pre-chain
// endpoints of RFC 6962 return it.
func AddChainResponse(sct *ct.SignedCertificateTimestamp) (*ct.AddChainResponse, error) {
	sig, err := tls.Marshal(sct.Signature)
	if err != nil {
		return nil, fmt.Errorf("marshaling SCT signature: %w", err)
	}
	return &ct.AddChainResponse{
		SCTVersion: sct.SCTVersion,
		ID:         sct.LogID.KeyID[:],
		Timestamp:  sct.Timestamp,
		Extensions: base64.StdEncoding.EncodeToString(sct.Extensions),
		Signature:  sig,
	}, nil
}

// VerifySCT checks that sct is a valid signature by v over entry.
func VerifySCT(v crypto.SignatureVerifier, entry *LogEntry, sct *ct.SignedCertificateTimestamp) error {
	if got, want := sct.LogID.KeyID, v.KeyID(); got != want {
		return fmt.Errorf("SCT log ID %x does not match key %x", got, want)
	}
	leaf, err := entry.MerkleTreeLeaf(sct.Timestamp)
	if err != nil {
		return err
	}
	input, err := ct.SerializeSCTSignatureInput(*sct, ct.LogEntry{Leaf: *leaf})
	if err != nil {
		return fmt.Errorf("serializing SCT signature input: %w", err)
	}
	if status := v.Verify(input, sct.Signature); status != crypto.VerifyOK {
		return fmt.Errorf("SCT signature: %v", status)
	}
	return nil
}
