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
	"fmt"
	"io"
	"net/http"
	"net/url"

	"docbridge/connectors/sdk"
	"docbridge/migration"
)

const (
	// smallUploadLimit is the largest file Graph accepts on a simple PUT
	smallUploadLimit = 4 * 1024 * 1024

	// fragmentSize is the granularity upload session chunks must respect
	fragmentSize = 320 * 1024

	defaultChunkSize = 32 * fragmentSize
)

// alignChunk rounds n down to a multiple of fragmentSize, never below one fragment
func alignChunk(n int64) int64 {
	if n < fragmentSize {
		return fragmentSize
	}
	return n / fragmentSize * fragmentSize
}

// Upload stores r as leafName under folder and returns the new item id.
// A negative size means unknown; the stream is then buffered to measure it.
func (l *Library) Upload(ctx context.Context, folder migration.FolderHandle, leafName string, r io.Reader, size int64, policy migration.ConflictPolicy) (string, error) {
	timer := sdk.NewTimer()

	if size < 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			timer.RecordTo(l.GetMetrics().RecordWrite, err)
			return "", fmt.Errorf("failed to buffer %q: %w", leafName, err)
		}
		r = bytes.NewReader(data)
		size = int64(len(data))
	}

	var (
		id  string
		err error
	)
	if size <= smallUploadLimit {
		id, err = l.putContent(ctx, folder, leafName, r, size, policy)
	} else {
		id, err = l.uploadSession(ctx, folder, leafName, r, size, policy)
	}
	timer.RecordTo(l.GetMetrics().RecordWrite, err)
	if err != nil {
		return "", err
	}

	l.GetMetrics().RecordBytes(size)
	return id, nil
}

func (l *Library) putContent(ctx context.Context, folder migration.FolderHandle, leafName string, r io.Reader, size int64, policy migration.ConflictPolicy) (string, error) {
	q := url.Values{}
	q.Set("@microsoft.graph.conflictBehavior", string(policy))

	req, err := l.newRequest(ctx, http.MethodPut, l.childURL(folder, leafName)+"/content?"+q.Encode(), r)
	if err != nil {
		return "", err
	}
	if size == 0 {
		req.Body = http.NoBody
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")

	var item driveItem
	if err := l.send(req, &item); err != nil {
		return "", err
	}
	return item.ID, nil
}

func (l *Library) uploadSession(ctx context.Context, folder migration.FolderHandle, leafName string, r io.Reader, size int64, policy migration.ConflictPolicy) (string, error) {
	body := map[string]interface{}{
		"item": map[string]interface{}{
			"@microsoft.graph.conflictBehavior": string(policy),
			"name":                              leafName,
		},
	}
	var session struct {
		UploadURL string `json:"uploadUrl"`
	}
	if err := l.postJSON(ctx, l.childURL(folder, leafName)+"/createUploadSession", body, &session); err != nil {
		return "", err
	}
	if session.UploadURL == "" {
		return "", &migration.RemoteStoreError{StatusCode: http.StatusBadGateway, Code: "invalidResponse", Message: "upload session has no uploadUrl"}
	}

	// any chunk failure abandons the session so Graph can discard the partial upload
	completed := false
	defer func() {
		if !completed {
			l.cancelSession(ctx, session.UploadURL)
		}
	}()

	buf := make([]byte, min(l.chunkSize, size))
	var (
		offset int64
		item   driveItem
	)
	for offset < size {
		n, err := io.ReadFull(r, buf[:min(l.chunkSize, size-offset)])
		if err != nil {
			return "", fmt.Errorf("failed to read %q at offset %d: %w", leafName, offset, err)
		}

		// Upload URLs are pre-authenticated; Graph rejects an Authorization header on them
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, session.UploadURL, bytes.NewReader(buf[:n]))
		if err != nil {
			return "", fmt.Errorf("failed to create chunk request: %w", err)
		}
		req.ContentLength = int64(n)
		req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, offset+int64(n)-1, size))

		item = driveItem{}
		if err := l.send(req, &item); err != nil {
			return "", err
		}
		offset += int64(n)
	}
	completed = true

	if item.ID == "" {
		return "", &migration.RemoteStoreError{StatusCode: http.StatusBadGateway, Code: "invalidResponse", Message: "upload session completed without an item"}
	}
	return item.ID, nil
}

func (l *Library) cancelSession(ctx context.Context, uploadURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, uploadURL, nil)
	if err != nil {
		return
	}
	if err := l.send(req, nil); err != nil {
		l.Log("Warning: failed to cancel upload session: %v", err)
	}
}
