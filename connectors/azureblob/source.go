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

package azureblob

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"docbridge/connectors/base"
	"docbridge/connectors/sdk"
)

const defaultPageSize = 1000

// Source reads documents from one Azure Blob Storage container
type Source struct {
	*sdk.BaseConnector
	client      *azblob.Client
	accountName string
	container   string
	pageSize    int32
}

// NewSource creates an unconnected Azure Blob source
func NewSource() *Source {
	return &Source{BaseConnector: sdk.NewBaseConnector("azureblob")}
}

// Connect builds the blob client. No request is sent; use Exists or HealthCheck to probe.
func (s *Source) Connect(ctx context.Context, cfg *base.ConnectorConfig) error {
	if err := s.BaseConnector.Connect(ctx, cfg); err != nil {
		return err
	}
	if err := s.RequireOptions("container"); err != nil {
		return err
	}

	s.container = s.GetStringOption("container", "")
	s.accountName = s.GetStringOption("account_name", "")
	s.pageSize = int32(s.GetIntOption("page_size", defaultPageSize))

	connectionString := s.GetCredential("connection_string")
	accountKey := s.GetCredential("account_key")

	var err error
	switch {
	case connectionString != "":
		s.client, err = azblob.NewClientFromConnectionString(connectionString, nil)
		if err != nil {
			return base.NewConnectorError(s.Name(), "Connect", "failed to create client from connection string", err)
		}
	case accountKey != "":
		if s.accountName == "" {
			return base.NewConnectorError(s.Name(), "Connect", "account_name is required with account_key", nil)
		}
		cred, cerr := azblob.NewSharedKeyCredential(s.accountName, accountKey)
		if cerr != nil {
			return base.NewConnectorError(s.Name(), "Connect", "failed to create shared key credential", cerr)
		}
		s.client, err = azblob.NewClientWithSharedKeyCredential(s.serviceURL(), cred, nil)
		if err != nil {
			return base.NewConnectorError(s.Name(), "Connect", "failed to create client", err)
		}
	case s.GetBoolOption("use_managed_identity", false):
		if s.accountName == "" && s.GetEndpoint() == "" {
			return base.NewConnectorError(s.Name(), "Connect", "account_name or endpoint is required with managed identity", nil)
		}
		cred, cerr := azidentity.NewDefaultAzureCredential(nil)
		if cerr != nil {
			return base.NewConnectorError(s.Name(), "Connect", "failed to create Azure credential", cerr)
		}
		s.client, err = azblob.NewClient(s.serviceURL(), cred, nil)
		if err != nil {
			return base.NewConnectorError(s.Name(), "Connect", "failed to create client", err)
		}
	default:
		return base.NewConnectorError(s.Name(), "Connect", "no authentication method provided", nil)
	}

	s.MarkConnected()
	s.Log("Connected to Azure Blob Storage (container: %s)", s.container)
	return nil
}

func (s *Source) serviceURL() string {
	if endpoint := s.GetEndpoint(); endpoint != "" {
		return endpoint
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/", s.accountName)
}

// Disconnect releases the client
func (s *Source) Disconnect(ctx context.Context) error {
	s.client = nil
	return s.BaseConnector.Disconnect(ctx)
}

// HealthCheck verifies the container can be reached
func (s *Source) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if s.client == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "Azure Blob client not initialized",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	exists, err := s.Exists(ctx)
	status := &base.HealthStatus{
		Healthy:   err == nil && exists,
		Latency:   time.Since(start),
		Details:   map[string]string{"container": s.container},
		Timestamp: time.Now(),
	}
	switch {
	case err != nil:
		status.Error = err.Error()
	case !exists:
		status.Error = "container not found"
	}
	return status, nil
}

// Exists reports whether the configured container exists
func (s *Source) Exists(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, base.NewConnectorError(s.Name(), "Exists", "Azure Blob client not initialized", nil)
	}

	timer := sdk.NewTimer()
	_, err := s.client.ServiceClient().NewContainerClient(s.container).GetProperties(ctx, nil)
	timer.RecordTo(s.GetMetrics().RecordRead, err)

	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, base.NewConnectorError(s.Name(), "Exists", "failed to get container properties", err)
	}
	return true, nil
}

// List yields every blob name under prefix, page by page
func (s *Source) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.client == nil {
			yield("", base.NewConnectorError(s.Name(), "List", "Azure Blob client not initialized", nil))
			return
		}

		pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
			Prefix:     &prefix,
			MaxResults: &s.pageSize,
		})
		for pager.More() {
			timer := sdk.NewTimer()
			resp, err := pager.NextPage(ctx)
			timer.RecordTo(s.GetMetrics().RecordRead, err)
			if err != nil {
				yield("", base.NewConnectorError(s.Name(), "List", "failed to list blobs", err))
				return
			}
			if resp.Segment == nil {
				continue
			}
			for _, item := range resp.Segment.BlobItems {
				if item.Name == nil {
					continue
				}
				if !yield(*item.Name, nil) {
					return
				}
			}
		}
	}
}

// OpenRead starts a download of key. The caller closes the body.
func (s *Source) OpenRead(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if s.client == nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", "Azure Blob client not initialized", nil)
	}

	timer := sdk.NewTimer()
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	timer.RecordTo(s.GetMetrics().RecordRead, err)
	if err != nil {
		return nil, 0, base.NewConnectorError(s.Name(), "OpenRead", fmt.Sprintf("failed to download blob: %s", key), err)
	}

	size := int64(-1)
	if resp.ContentLength != nil {
		size = *resp.ContentLength
		s.GetMetrics().RecordBytes(size)
	}
	return resp.Body, size, nil
}

// Container returns the configured container name
func (s *Source) Container() string {
	return s.container
}
