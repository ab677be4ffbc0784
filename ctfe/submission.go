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
	"crypto/sha256"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/x509"
	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/util/clock"
	"k8s.io/klog/v2"
)

// SubmissionHandler turns submitted PEM chains into log entries. It holds no
// per-submission state and is safe for concurrent use.
type SubmissionHandler struct {
	checker    *CertChecker
	timeSource clock.TimeSource
}

// NewSubmissionHandler returns a handler validating chains with checker.
func NewSubmissionHandler(checker *CertChecker, mf monitoring.MetricFactory) *SubmissionHandler {
	once.Do(func() { createMetrics(mf) })
	return &SubmissionHandler{checker: checker, timeSource: clock.System}
}

// ProcessSubmission loads, validates and normalizes a submission of the
// given kind. Rejections are *SubmitError; StatusOf gives their Status.
func (h *SubmissionHandler) ProcessSubmission(data []byte, kind ct.LogEntryType) (*LogEntry, error) {
	start := h.timeSource.Now()
	entry, err := h.process(data, kind)
	label := kind.String()
	submissionLatency.Observe(clock.SecondsSince(h.timeSource, start), label)
	status, _ := StatusOf(err)
	submissions.Inc(label, status.String())
	if err != nil {
		klog.V(1).Infof("rejected %s submission: %v", label, err)
		return nil, err
	}
	klog.V(1).Infof("accepted %s submission of %d certificate(s)", label, len(entry.Chain())+1)
	return entry, nil
}

func (h *SubmissionHandler) process(data []byte, kind ct.LogEntryType) (*LogEntry, error) {
	if len(data) == 0 {
		return nil, submitErrorf(EmptySubmission, "no data submitted")
	}
	chain, err := LoadChain(data)
	if err != nil {
		return nil, err
	}
	cc, err := h.checker.Validate(chain)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ct.X509LogEntryType:
		if cc.IsPrecert {
			return nil, submitErrorf(EntryTypeMismatch, "precertificate submitted as certificate")
		}
		return &LogEntry{
			Type: ct.X509LogEntryType,
			X509: &X509Entry{
				LeafCertificate:  cc.Leaf().Raw,
				CertificateChain: rawCerts(cc.Chain[1:]),
			},
		}, nil
	case ct.PrecertLogEntryType:
		if !cc.IsPrecert {
			return nil, submitErrorf(EntryTypeMismatch, "certificate submitted as precertificate")
		}
		return buildPrecertEntry(cc)
	}
	return nil, submitErrorf(EntryTypeMismatch, "unsupported entry type %v", kind)
}

func buildPrecertEntry(cc *ClassifiedChain) (*LogEntry, error) {
	if len(cc.Chain) < 2 {
		return nil, submitErrorf(InvalidCertificateChain, "precertificate has no issuer")
	}
	// The SCT is bound to the CA that will issue the final certificate. With
	// a Precertificate Signing Certificate that is the next one up.
	issuer := cc.Chain[1]
	if cc.PrecertSigner != nil {
		issuer = cc.Chain[2]
	}
	tbs, err := x509.BuildPrecertTBS(cc.Leaf().RawTBSCertificate, cc.PrecertSigner)
	if err != nil {
		return nil, submitErrorf(InvalidCertificateChain, "failed to build precertificate TBS: %v", err)
	}
	return &LogEntry{
		Type: ct.PrecertLogEntryType,
		Precert: &PreCertEntry{
			PreCertificate: cc.Leaf().Raw,
			PreCert: ct.PreCert{
				IssuerKeyHash:  sha256.Sum256(issuer.RawSubjectPublicKeyInfo),
				TBSCertificate: tbs,
			},
			PrecertificateChain: rawCerts(cc.Chain[1:]),
		},
	}, nil
}

func rawCerts(chain []*x509.Certificate) [][]byte {
	raw := make([][]byte, 0, len(chain))
	for _, c := range chain {
		raw = append(raw, c.Raw)
	}
	return raw
}
