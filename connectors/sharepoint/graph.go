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

package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"docbridge/migration"
)

// graphErrorBody is the error envelope returned by Microsoft Graph
type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newRequest builds an authenticated Graph request
func (l *Library) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	auth := l.GetAuthProvider()
	if auth == nil {
		return nil, &migration.SinkAuthenticationError{Cause: fmt.Errorf("no auth provider configured")}
	}
	if err := auth.Authenticate(ctx, req); err != nil {
		return nil, &migration.SinkAuthenticationError{Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send executes req and decodes a 2xx JSON response into out (if non-nil).
// Non-2xx responses become RemoteStoreError, 401 becomes SinkAuthenticationError.
func (l *Library) send(req *http.Request, out interface{}) error {
	if err := l.Throttle(req.Context()); err != nil {
		return err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request %s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeGraphError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}

func decodeGraphError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	rse := &migration.RemoteStoreError{StatusCode: resp.StatusCode}
	var body graphErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Code != "" {
		rse.Code = body.Error.Code
		rse.Message = body.Error.Message
	} else {
		rse.Code = http.StatusText(resp.StatusCode)
		rse.Message = string(bytes.TrimSpace(raw))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &migration.SinkAuthenticationError{Cause: rse}
	}
	return rse
}

func (l *Library) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := l.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return l.send(req, out)
}

func (l *Library) postJSON(ctx context.Context, rawURL string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := l.newRequest(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return l.send(req, out)
}
