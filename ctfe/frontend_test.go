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
	"testing"

	"github.com/golang/mock/gomock"
	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/google/ct-frontend/crypto"
	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/memory"
	"github.com/google/ct-frontend/testonly"
	"github.com/google/ct-frontend/util/clock"
)

func newTestFrontend(t *testing.T) (*Frontend, *crypto.Signer) {
	t.Helper()
	signer := testSigner(t)
	db := storage.WithCodec[*LoggedRecord](memory.NewDatabase[[]byte](), RecordCodec{})
	return NewFrontend(newTestHandler(t), NewFrontendSigner(db, signer, clock.NewFake(fakeTime), nil)), signer
}

func TestSubmit(t *testing.T) {
	tc := testonly.Certs()
	ctx := context.Background()
	f, _ := newTestFrontend(t)
	defer f.Close()

	for _, test := range []struct {
		desc       string
		data       []byte
		kind       ct.LogEntryType
		want       SubmitResult
		wantStatus Status
	}{
		{desc: "leaf", data: pemChain(tc.Leaf), kind: ct.X509LogEntryType, want: New},
		{desc: "leaf again with anchor", data: pemChain(tc.Leaf, tc.CA), kind: ct.X509LogEntryType, want: Duplicate},
		{desc: "precert", data: pemChain(tc.Precert), kind: ct.PrecertLogEntryType, want: New},
		{desc: "precert again", data: pemChain(tc.Precert), kind: ct.PrecertLogEntryType, want: Duplicate},
		{desc: "precert via signing certificate", data: pemChain(tc.PrecertViaPreCA, tc.PreCA), kind: ct.PrecertLogEntryType, want: New},
		{desc: "empty", data: nil, kind: ct.X509LogEntryType, wantStatus: EmptySubmission},
		{desc: "unknown root", data: pemChain(tc.UntrustedLeaf, tc.OtherCA), kind: ct.X509LogEntryType, wantStatus: UnknownRoot},
		{desc: "mismatch", data: pemChain(tc.ChainLeaf, tc.Intermediate), kind: ct.PrecertLogEntryType, wantStatus: EntryTypeMismatch},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, sct, err := f.Submit(ctx, test.data, test.kind)
			if test.wantStatus != OK {
				wantStatus(t, err, test.wantStatus)
				return
			}
			if err != nil {
				t.Fatalf("Submit(): %v", err)
			}
			if got != test.want {
				t.Errorf("Submit()=%v, want %v", got, test.want)
			}
			if sct == nil {
				t.Error("Submit() returned no SCT")
			}
		})
	}
}

func TestAddChainResponse(t *testing.T) {
	tc := testonly.Certs()
	f, signer := newTestFrontend(t)
	defer f.Close()

	_, sct, err := f.Submit(context.Background(), pemChain(tc.Leaf), ct.X509LogEntryType)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	rsp, err := AddChainResponse(sct)
	if err != nil {
		t.Fatalf("AddChainResponse(): %v", err)
	}
	if got, want := base64.StdEncoding.EncodeToString(rsp.ID), testonly.LogIDBase64; got != want {
		t.Errorf("ID=%s, want %s", got, want)
	}
	if rsp.Timestamp != sct.Timestamp || rsp.SCTVersion != ct.V1 || rsp.Extensions != "" {
		t.Errorf("AddChainResponse()=%+v, does not match SCT %+v", rsp, sct)
	}
	var ds ct.DigitallySigned
	if rest, err := tls.Unmarshal(rsp.Signature, &ds); err != nil || len(rest) != 0 {
		t.Fatalf("tls.Unmarshal(Signature)=%d bytes left, %v", len(rest), err)
	}
	v, err := crypto.NewVerifier(signer.Public())
	if err != nil {
		t.Fatalf("NewVerifier(): %v", err)
	}
	rebuilt := *sct
	rebuilt.Signature = ds
	entry, err := newTestHandler(t).ProcessSubmission(pemChain(tc.Leaf), ct.X509LogEntryType)
	if err != nil {
		t.Fatalf("ProcessSubmission(): %v", err)
	}
	if err := VerifySCT(v, entry, &rebuilt); err != nil {
		t.Errorf("VerifySCT(): %v", err)
	}
}

func TestVerifySCTFailures(t *testing.T) {
	entry := x509Entry([]byte("leaf"))
	sct := &ct.SignedCertificateTimestamp{SCTVersion: ct.V1, LogID: ct.LogID{KeyID: [32]byte{1}}, Timestamp: 5}

	for _, test := range []struct {
		desc  string
		setup func(v *crypto.MockSignatureVerifier)
	}{
		{
			desc: "wrong key",
			setup: func(v *crypto.MockSignatureVerifier) {
				v.EXPECT().KeyID().Return([32]byte{2})
			},
		},
		{
			desc: "bad signature",
			setup: func(v *crypto.MockSignatureVerifier) {
				v.EXPECT().KeyID().Return([32]byte{1})
				v.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(crypto.InvalidSignature)
			},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			v := crypto.NewMockSignatureVerifier(ctrl)
			test.setup(v)
			if err := VerifySCT(v, entry, sct); err == nil {
				t.Error("VerifySCT()=nil, want error")
			}
		})
	}
}
