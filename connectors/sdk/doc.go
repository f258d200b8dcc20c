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

// Package sdk provides the building blocks shared by docbridge storage connectors.
//
// # Quick Start
//
// A connector embeds BaseConnector and layers its client setup on top:
//
//	type Source struct {
//	    *sdk.BaseConnector
//	    client *azblob.Client
//	}
//
//	func (s *Source) Connect(ctx context.Context, config *base.ConnectorConfig) error {
//	    if err := s.BaseConnector.Connect(ctx, config); err != nil {
//	        return err
//	    }
//	    // client construction
//	    return nil
//	}
//
// # Features
//
//   - BaseConnector: configuration accessors, prefixed logging and lifecycle state
//   - Authentication: AuthProvider backed by an azcore.TokenCredential
//   - Rate Limiting: token bucket limiter used to pace document library calls
//   - Metrics: per-connector read/write counters and latency percentiles
//
// # Authentication
//
//	cred, _ := azidentity.NewClientSecretCredential(tenantID, clientID, secret, nil)
//	auth := sdk.NewTokenCredentialAuth(cred, "https://graph.microsoft.com/.default")
//	if err := auth.Authenticate(ctx, req); err != nil {
//	    return err
//	}
//
// # Rate Limiting
//
//	limiter := sdk.NewRateLimiter(10, 5) // 10 requests/second, burst of 5
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package sdk
