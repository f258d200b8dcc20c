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

package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"docbridge/connectors/base"
	"docbridge/connectors/sdk"
)

const defaultPageSize = 1000

// Source reads documents from one GCS bucket
type Source struct {
	*sdk.BaseConnector
	client   *storage.Client
	bucket   string
	pageSize int
}

// NewSource creates an unconnected GCS source
func NewSource() *Source {
	return &Source{BaseConnector: sdk.NewBaseConnector("gcs")}
}

// Connect builds the storage client
func (s *Source) Connect(ctx context.Context, cfg *base.ConnectorConfig) error {
	if err := s.BaseConnector.Connect(ctx, cfg); err != nil {
		return err
	}
	if err := s.RequireOptions("bucket"); err != nil {
		return err
	}

	s.bucket = s.GetStringOption("bucket", "")
	s.pageSize = s.GetIntOption("page_size", defaultPageSize)

	var opts []option.ClientOption
	if credFile := s.GetCredential("credentials_file"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	} else if credJSON := s.GetCredential("credentials_json"); credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}
	if endpoint := s.GetEndpoint(); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	if s.GetBoolOption("without_authentication", false) {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return base.NewConnectorError(s.Name(), "Connect", "failed to create GCS client", err)
	}
	s.client = client

	s.MarkConnected()
	s.Log("Connected to GCS (bucket: %s)", s.bucket)
	return nil
}

// Disconnect closes the storage client
func (s *Source) Disconnect(ctx context.Context) error {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.Log("Warning: error closing GCS client: %v", err)
		}
		s.client = nil
	}
	return s.BaseConnector.Disconnect(ctx)
}

// HealthCheck verifies the bucket can be reached
func (s *Source) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if s.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "GCS client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	exists, err := s.Exists(ctx)
	status := &base.HealthStatus{
		Healthy:   err == nil && exists,
		Latency:   time.Since(start),
		Details:   map[string]string{"bucket": s.bucket},
		Timestamp: time.Now(),
	}
	switch {
	case err != nil:
		status.Error = err.Error()
	case !exists:
		status.Error = "bucket not found"
	}
	return status, nil
}

// Exists reports whether the configured bucket exists
func (s *Source) Exists(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, base.NewConnectorError(s.Name(), "Exists", "GCS client not initialized", nil)
	}

	timer := sdk.NewTimer()
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	timer.RecordTo(s.GetMetrics().RecordRead, err)

	if err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return false, nil
		}
		return false, base.NewConnectorError(s.Name(), "Exists", "failed to get bucket attributes", err)
	}
	return true, nil
}

// List yields every object name under prefix
func (s *Source) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.client == nil {
			yield("", base.NewConnectorError(s.Name(), "List", "GCS client not initialized", nil))
			return
		}

		query := &storage.Query{Prefix: prefix}
		if err := query.SetAttrSelection([]string{"Name"}); err != nil {
			yield("", base.NewConnectorError(s.Name(), "List", "failed to build query", err))
			return
		}

		it := s.client.Bucket(s.bucket).Objects(ctx, query)
		it.PageInfo().MaxSize = s.pageSize
		for {
			timer := sdk.NewTimer()
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			timer.RecordTo(s.GetMetrics().RecordRead, err)
			if err != nil {
				yield("", base.NewConnectorError(s.Name(), "List", "failed to list objects", err))
				return
			}
			if !yield(attrs.Name, nil) {
				return
			}
		}
	}
}

// OpenRead opens a reader for key. The caller closes it.
func (s *Source) OpenRead(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if s.client == nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", "GCS client not initialized", nil)
	}

	timer := sdk.NewTimer()
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	timer.RecordTo(s.GetMetrics().RecordRead, err)
	if err != nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", fmt.Sprintf("failed to open object: %s", key), err)
	}

	size := r.Attrs.Size
	s.GetMetrics().RecordBytes(size)
	return r, size, nil
}

// Bucket returns the configured bucket name
func (s *Source) Bucket() string {
	return s.bucket
}
