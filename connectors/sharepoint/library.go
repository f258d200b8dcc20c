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
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"docbridge/connectors/base"
	"docbridge/connectors/sdk"
	"docbridge/migration"
)

const (
	// DefaultGraphBaseURL is the Microsoft Graph v1.0 endpoint
	DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

	graphScope = "https://graph.microsoft.com/.default"
)

// Library is an authenticated session against one SharePoint document library.
// It implements migration.DocumentLibrary.
type Library struct {
	*sdk.BaseConnector
	httpClient  *http.Client
	credential  azcore.TokenCredential
	baseURL     string
	siteURL     string
	libraryName string
	siteID      string
	driveID     string
	chunkSize   int64
}

var _ migration.DocumentLibrary = (*Library)(nil)

// NewLibrary creates an unconnected library session
func NewLibrary() *Library {
	return &Library{
		BaseConnector: sdk.NewBaseConnector("sharepoint"),
		chunkSize:     defaultChunkSize,
	}
}

// SetCredential overrides the client secret credential built by Connect
func (l *Library) SetCredential(cred azcore.TokenCredential) {
	l.credential = cred
}

// SetHTTPClient overrides the HTTP client used for Graph calls
func (l *Library) SetHTTPClient(client *http.Client) {
	l.httpClient = client
}

// Connect authenticates and resolves the site and drive ids
func (l *Library) Connect(ctx context.Context, cfg *base.ConnectorConfig) error {
	if err := l.BaseConnector.Connect(ctx, cfg); err != nil {
		return err
	}
	if err := l.RequireOptions("site_url", "library"); err != nil {
		return err
	}

	l.siteURL = l.GetStringOption("site_url", "")
	l.libraryName = l.GetStringOption("library", "")
	l.baseURL = strings.TrimRight(DefaultGraphBaseURL, "/")
	if endpoint := l.GetEndpoint(); endpoint != "" {
		l.baseURL = strings.TrimRight(endpoint, "/")
	}
	if chunk := int64(l.GetIntOption("chunk_size", 0)); chunk > 0 {
		l.chunkSize = alignChunk(chunk)
	}
	if rps := l.GetFloatOption("max_rps", 0); rps > 0 {
		l.SetRateLimiter(sdk.NewRateLimiter(rps, max(1, int(rps))))
	}
	if l.httpClient == nil {
		l.httpClient = &http.Client{Timeout: 10 * time.Minute}
	}

	if l.credential == nil {
		if err := l.RequireCredentials("tenant_id", "client_id", "client_secret"); err != nil {
			return err
		}
		cred, err := azidentity.NewClientSecretCredential(
			l.GetCredential("tenant_id"),
			l.GetCredential("client_id"),
			l.GetCredential("client_secret"),
			nil,
		)
		if err != nil {
			return &migration.SinkAuthenticationError{Cause: err}
		}
		l.credential = cred
	}

	auth := sdk.NewTokenCredentialAuth(l.credential, graphScope)
	if err := auth.Refresh(ctx); err != nil {
		l.GetMetrics().RecordError()
		return &migration.SinkAuthenticationError{Cause: err}
	}
	l.SetAuthProvider(auth)

	if err := l.resolveSite(ctx); err != nil {
		return err
	}
	if err := l.resolveDrive(ctx); err != nil {
		return err
	}

	l.MarkConnected()
	l.Log("Connected to document library %q (site: %s, drive: %s)", l.libraryName, l.siteID, l.driveID)
	return nil
}

// Disconnect drops the cached identifiers
func (l *Library) Disconnect(ctx context.Context) error {
	l.siteID = ""
	l.driveID = ""
	return l.BaseConnector.Disconnect(ctx)
}

// HealthCheck reads the drive root
func (l *Library) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if l.driveID == "" {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "document library not connected",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	err := l.getJSON(ctx, l.itemURL(migration.RootFolder), nil)
	status := &base.HealthStatus{
		Healthy:   err == nil,
		Latency:   time.Since(start),
		Details:   map[string]string{"site_id": l.siteID, "drive_id": l.driveID, "library": l.libraryName},
		Timestamp: time.Now(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status, nil
}

// Identity names the site and drive of the session
func (l *Library) Identity() string {
	return l.siteID + "|" + l.driveID
}

// DriveID returns the resolved drive id
func (l *Library) DriveID() string {
	return l.driveID
}

func (l *Library) resolveSite(ctx context.Context) error {
	u, err := url.Parse(l.siteURL)
	if err != nil || u.Host == "" {
		return base.NewConnectorError(l.Name(), "Connect", fmt.Sprintf("invalid site URL %q", l.siteURL), err)
	}

	siteRef := u.Host
	if p := strings.Trim(u.EscapedPath(), "/"); p != "" {
		siteRef += ":/" + p
	}

	var site struct {
		ID string `json:"id"`
	}
	if err := l.getJSON(ctx, l.baseURL+"/sites/"+siteRef, &site); err != nil {
		return err
	}
	if site.ID == "" {
		return &migration.RemoteStoreError{StatusCode: http.StatusNotFound, Code: "itemNotFound", Message: "site not found: " + l.siteURL}
	}
	l.siteID = site.ID
	return nil
}

func (l *Library) resolveDrive(ctx context.Context) error {
	next := l.baseURL + "/sites/" + url.PathEscape(l.siteID) + "/drives?$select=id,name"
	for next != "" {
		var page struct {
			Value []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"value"`
			NextLink string `json:"@odata.nextLink"`
		}
		if err := l.getJSON(ctx, next, &page); err != nil {
			return err
		}
		for _, d := range page.Value {
			if strings.EqualFold(d.Name, l.libraryName) {
				l.driveID = d.ID
				return nil
			}
		}
		next = page.NextLink
	}
	return &migration.RemoteStoreError{
		StatusCode: http.StatusNotFound,
		Code:       "itemNotFound",
		Message:    fmt.Sprintf("document library %q not found on site", l.libraryName),
	}
}

// itemURL addresses a drive item by handle
func (l *Library) itemURL(folder migration.FolderHandle) string {
	driveURL := l.baseURL + "/drives/" + url.PathEscape(l.driveID)
	if folder == migration.RootFolder || folder == "" {
		return driveURL + "/root"
	}
	return driveURL + "/items/" + url.PathEscape(string(folder))
}

// childURL addresses a named child of folder using Graph path syntax
func (l *Library) childURL(folder migration.FolderHandle, name string) string {
	return l.itemURL(folder) + ":/" + url.PathEscape(name) + ":"
}
