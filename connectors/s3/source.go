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

package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"docbridge/connectors/base"
	"docbridge/connectors/sdk"
)

const defaultPageSize = 1000

// Source reads documents from one S3 bucket
type Source struct {
	*sdk.BaseConnector
	client   *s3.Client
	bucket   string
	region   string
	pageSize int32
}

// NewSource creates an unconnected S3 source
func NewSource() *Source {
	return &Source{BaseConnector: sdk.NewBaseConnector("s3")}
}

// Connect loads the AWS configuration and builds the client
func (s *Source) Connect(ctx context.Context, cfg *base.ConnectorConfig) error {
	if err := s.BaseConnector.Connect(ctx, cfg); err != nil {
		return err
	}
	if err := s.RequireOptions("bucket"); err != nil {
		return err
	}

	s.bucket = s.GetStringOption("bucket", "")
	s.region = s.GetStringOption("region", "us-east-1")
	s.pageSize = int32(s.GetIntOption("page_size", defaultPageSize))

	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(s.region),
	}

	accessKeyID := s.GetCredential("access_key_id")
	secretAccessKey := s.GetCredential("secret_access_key")
	if accessKeyID != "" && secretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, s.GetCredential("session_token"))
		optFns = append(optFns, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return base.NewConnectorError(s.Name(), "Connect", "failed to load AWS config", err)
	}

	endpoint := s.GetEndpoint()
	pathStyle := s.GetBoolOption("force_path_style", false)
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	s.MarkConnected()
	s.Log("Connected to S3 (region: %s, bucket: %s)", s.region, s.bucket)
	return nil
}

// Disconnect releases the client
func (s *Source) Disconnect(ctx context.Context) error {
	s.client = nil
	return s.BaseConnector.Disconnect(ctx)
}

// HealthCheck verifies the bucket can be reached
func (s *Source) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if s.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "S3 client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	exists, err := s.Exists(ctx)
	status := &base.HealthStatus{
		Healthy:   err == nil && exists,
		Latency:   time.Since(start),
		Details:   map[string]string{"bucket": s.bucket, "region": s.region},
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
		return false, base.NewConnectorError(s.Name(), "Exists", "S3 client not initialized", nil)
	}

	timer := sdk.NewTimer()
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	timer.RecordTo(s.GetMetrics().RecordRead, err)

	if err != nil {
		if isBucketNotFound(err) {
			return false, nil
		}
		return false, base.NewConnectorError(s.Name(), "Exists", "failed to head bucket", err)
	}
	return true, nil
}

func isBucketNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

// List yields every object key under prefix, page by page
func (s *Source) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.client == nil {
			yield("", base.NewConnectorError(s.Name(), "List", "S3 client not initialized", nil))
			return
		}

		paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket:  aws.String(s.bucket),
			Prefix:  aws.String(prefix),
			MaxKeys: aws.Int32(s.pageSize),
		})
		for paginator.HasMorePages() {
			timer := sdk.NewTimer()
			page, err := paginator.NextPage(ctx)
			timer.RecordTo(s.GetMetrics().RecordRead, err)
			if err != nil {
				yield("", base.NewConnectorError(s.Name(), "List", "failed to list objects", err))
				return
			}
			for _, obj := range page.Contents {
				if obj.Key == nil {
					continue
				}
				if !yield(*obj.Key, nil) {
					return
				}
			}
		}
	}
}

// OpenRead starts a download of key. The caller closes the body.
func (s *Source) OpenRead(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if s.client == nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", "S3 client not initialized", nil)
	}

	timer := sdk.NewTimer()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	timer.RecordTo(s.GetMetrics().RecordRead, err)
	if err != nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", fmt.Sprintf("failed to get object: %s", key), err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
		s.GetMetrics().RecordBytes(size)
	}
	return out.Body, size, nil
}

// Bucket returns the configured bucket name
func (s *Source) Bucket() string {
	return s.bucket
}
