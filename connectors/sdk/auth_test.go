// Copyright 2025 AxonFlow
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

package sdk

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

type fakeCredential struct {
	tokens    []azcore.AccessToken
	err       error
	calls     int
	lastScope []string
}

func (f *fakeCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.calls++
	f.lastScope = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	tk := f.tokens[0]
	if len(f.tokens) > 1 {
		f.tokens = f.tokens[1:]
	}
	return tk, nil
}

func TestTokenCredentialAuth_Authenticate(t *testing.T) {
	cred := &fakeCredential{tokens: []azcore.AccessToken{{Token: "tok-1", ExpiresOn: time.Now().Add(time.Hour)}}}
	auth := NewTokenCredentialAuth(cred, "https://graph.microsoft.com/.default")

	if !auth.IsExpired() {
		t.Error("auth without a token should be expired")
	}

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "https://graph.microsoft.com/v1.0/sites", nil)
		if err := auth.Authenticate(context.Background(), req); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected header %q", got)
		}
	}

	if cred.calls != 1 {
		t.Errorf("expected one token request, got %d", cred.calls)
	}
	if len(cred.lastScope) != 1 || cred.lastScope[0] != "https://graph.microsoft.com/.default" {
		t.Errorf("unexpected scopes %v", cred.lastScope)
	}
	if auth.Type() != "azure_ad" {
		t.Errorf("unexpected type %s", auth.Type())
	}
}

func TestTokenCredentialAuth_RefreshesNearExpiry(t *testing.T) {
	cred := &fakeCredential{tokens: []azcore.AccessToken{
		{Token: "stale", ExpiresOn: time.Now().Add(time.Minute)},
		{Token: "fresh", ExpiresOn: time.Now().Add(time.Hour)},
	}}
	auth := NewTokenCredentialAuth(cred)

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	_ = auth.Authenticate(context.Background(), req)
	_ = auth.Authenticate(context.Background(), req)

	if got := req.Header.Get("Authorization"); got != "Bearer fresh" {
		t.Errorf("expected refreshed token, got %q", got)
	}
	if cred.calls != 2 {
		t.Errorf("expected two token requests, got %d", cred.calls)
	}
}

func TestTokenCredentialAuth_Error(t *testing.T) {
	cause := errors.New("AADSTS7000215: Invalid client secret provided")
	auth := NewTokenCredentialAuth(&fakeCredential{err: cause})

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	err := auth.Authenticate(context.Background(), req)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped credential error, got %v", err)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("no header should be set on failure")
	}
}

func TestTokenCredentialAuth_EmptyToken(t *testing.T) {
	auth := NewTokenCredentialAuth(&fakeCredential{tokens: []azcore.AccessToken{{}}})
	if err := auth.Refresh(context.Background()); err == nil {
		t.Error("expected error for empty token")
	}
}
