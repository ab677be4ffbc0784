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

//go:generate mockgen -package crypto -destination mock_signer.go crypto Signer
//go:generate mockgen -self_package github.com/google/ct-frontend/crypto -package crypto -destination mock_signature_verifier.go github.com/google/ct-frontend/crypto SignatureVerifier
