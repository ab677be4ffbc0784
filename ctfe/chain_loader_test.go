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
	"encoding/pem"
	"testing"

	"github.com/google/ct-frontend/testonly"
)

func TestLoadChain(t *testing.T) {
	tc := testonly.Certs()
	junk := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("not DER")}))
	corrupt := "-----BEGIN CERTIFICATE-----\n!!!not base64!!!\n-----END CERTIFICATE-----\n"
	key := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}}))
	withHeaders := string(pem.EncodeToMemory(&pem.Block{
		Type:    "CERTIFICATE",
		Headers: map[string]string{"Proc-Type": "4,ENCRYPTED"},
		Bytes:   testonly.MustParseCert(tc.Leaf).Raw,
	}))

	for _, test := range []struct {
		desc       string
		data       string
		wantStatus Status
		wantLen    int
	}{
		{desc: "empty", data: "", wantStatus: EmptySubmission},
		{desc: "whitespace", data: " \n\t\r\n", wantStatus: EmptySubmission},
		{desc: "single", data: tc.Leaf, wantLen: 1},
		{desc: "two", data: tc.ChainLeaf + tc.Intermediate, wantLen: 2},
		{desc: "surrounding whitespace", data: "\n\n" + tc.Leaf + "\r\n \n" + tc.CA + "\n\n", wantLen: 2},
		{desc: "not pem", data: "hello", wantStatus: InvalidPEMEncodedChain},
		{desc: "trailing garbage", data: tc.Leaf + "garbage", wantStatus: InvalidPEMEncodedChain},
		{desc: "leading garbage", data: "garbage" + tc.Leaf, wantStatus: InvalidPEMEncodedChain},
		{desc: "truncated", data: tc.Leaf[:len(tc.Leaf)-30], wantStatus: InvalidPEMEncodedChain},
		{desc: "private key", data: tc.Leaf + key, wantStatus: InvalidPEMEncodedChain},
		{desc: "headers", data: withHeaders, wantStatus: InvalidPEMEncodedChain},
		{desc: "undecodable certificate", data: junk, wantStatus: InvalidPEMEncodedChain},
		{desc: "corrupt block between certificates", data: tc.ChainLeaf + corrupt + tc.Intermediate, wantStatus: InvalidPEMEncodedChain},
	} {
		t.Run(test.desc, func(t *testing.T) {
			chain, err := LoadChain([]byte(test.data))
			if test.wantStatus != OK {
				wantStatus(t, err, test.wantStatus)
				return
			}
			if err != nil {
				t.Fatalf("LoadChain(): %v", err)
			}
			if got := len(chain); got != test.wantLen {
				t.Errorf("LoadChain() returned %d certificates, want %d", got, test.wantLen)
			}
		})
	}
}

func TestLoadChainKeepsOrder(t *testing.T) {
	tc := testonly.Certs()
	chain, err := LoadChain(pemChain(tc.CA, tc.Leaf))
	if err != nil {
		t.Fatalf("LoadChain(): %v", err)
	}
	if !chain[0].Equal(testonly.MustParseCert(tc.CA)) || !chain[1].Equal(testonly.MustParseCert(tc.Leaf)) {
		t.Error("LoadChain() reordered the submission")
	}
}
