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
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// AuthProvider defines the interface for authentication mechanisms
type AuthProvider interface {
	// Authenticate applies authentication to the given request
	Authenticate(ctx context.Context, req *http.Request) error

	// IsExpired checks if the current credentials have expired
	IsExpired() bool

	// Refresh refreshes the credentials if possible
	Refresh(ctx context.Context) error

	// Type returns the authentication type name
	Type() string
}

// tokenExpiryMargin is how long before expiry a cached token is considered stale
const tokenExpiryMargin = 2 * time.Minute

// TokenCredentialAuth applies Bearer tokens obtained from an Azure AD credential
type TokenCredentialAuth struct {
	cred      azcore.TokenCredential
	scopes    []string
	token     string
	expiresOn time.Time
	mu        sync.RWMutex
}

// NewTokenCredentialAuth creates an auth provider requesting tokens for scopes
func NewTokenCredentialAuth(cred azcore.TokenCredential, scopes ...string) *TokenCredentialAuth {
	return &TokenCredentialAuth{
		cred:   cred,
		scopes: scopes,
	}
}

// Authenticate sets the Authorization header, acquiring a token first if none is cached
func (a *TokenCredentialAuth) Authenticate(ctx context.Context, req *http.Request) error {
	a.mu.RLock()
	token := a.token
	expired := a.isExpiredUnlocked()
	a.mu.RUnlock()

	if token == "" || expired {
		if err := a.Refresh(ctx); err != nil {
			return err
		}
		a.mu.RLock()
		token = a.token
		a.mu.RUnlock()
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// IsExpired checks if the cached token has expired
func (a *TokenCredentialAuth) IsExpired() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isExpiredUnlocked()
}

// isExpiredUnlocked checks expiration without acquiring lock (caller must hold lock)
func (a *TokenCredentialAuth) isExpiredUnlocked() bool {
	if a.expiresOn.IsZero() {
		return a.token == ""
	}
	return time.Now().Add(tokenExpiryMargin).After(a.expiresOn)
}

// Refresh acquires a new token from the credential
func (a *TokenCredentialAuth) Refresh(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tk, err := a.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: a.scopes})
	if err != nil {
		return fmt.Errorf("failed to acquire access token: %w", err)
	}
	if tk.Token == "" {
		return fmt.Errorf("credential returned an empty access token")
	}

	a.token = tk.Token
	a.expiresOn = tk.ExpiresOn
	return nil
}

// Type returns the authentication type
func (a *TokenCredentialAuth) Type() string {
	return "azure_ad"
}
