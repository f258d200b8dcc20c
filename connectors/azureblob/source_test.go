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
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"docbridge/connectors/base"
)

// Well-known Azurite development key
const devAccountKey = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="

// fakeBlobService emulates the subset of the Blob REST API the source uses
type fakeBlobService struct {
	container string
	missing   bool
	names     []string
	data      map[string][]byte
	listCalls int
}

func (f *fakeBlobService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/devstoreaccount1/")
	q := r.URL.Query()

	if f.missing {
		w.Header().Set("x-ms-error-code", "ContainerNotFound")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case path == f.container && q.Get("comp") == "list":
		f.writeList(w, q.Get("prefix"), q.Get("marker"), q.Get("maxresults"))
	case path == f.container && q.Get("restype") == "container":
		w.WriteHeader(http.StatusOK)
	case strings.HasPrefix(path, f.container+"/"):
		name := strings.TrimPrefix(path, f.container+"/")
		data, ok := f.data[name]
		if !ok {
			w.Header().Set("x-ms-error-code", "BlobNotFound")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeBlobService) writeList(w http.ResponseWriter, prefix, marker, maxResults string) {
	f.listCalls++

	var matching []string
	for _, n := range f.names {
		if strings.HasPrefix(n, prefix) {
			matching = append(matching, n)
		}
	}

	start, _ := strconv.Atoi(marker)
	size, err := strconv.Atoi(maxResults)
	if err != nil || size <= 0 {
		size = len(matching)
	}
	end := min(start+size, len(matching))

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	fmt.Fprintf(&sb, `<EnumerationResults ContainerName="%s"><Prefix>%s</Prefix><Blobs>`, f.container, prefix)
	for _, n := range matching[start:end] {
		fmt.Fprintf(&sb, `<Blob><Name>%s</Name><Properties><Content-Length>%d</Content-Length></Properties></Blob>`, n, len(f.data[n]))
	}
	sb.WriteString(`</Blobs>`)
	if end < len(matching) {
		fmt.Fprintf(&sb, `<NextMarker>%d</NextMarker>`, end)
	} else {
		sb.WriteString(`<NextMarker/>`)
	}
	sb.WriteString(`</EnumerationResults>`)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

func newTestSource(t *testing.T, svc *fakeBlobService, opts map[string]interface{}) *Source {
	t.Helper()
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	if opts == nil {
		opts = map[string]interface{}{}
	}
	opts["container"] = svc.container

	connStr := fmt.Sprintf("DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=%s;BlobEndpoint=%s/devstoreaccount1;", devAccountKey, srv.URL)
	src := NewSource()
	err := src.Connect(context.Background(), &base.ConnectorConfig{
		Name:        "test-archive",
		Credentials: map[string]string{"connection_string": connStr},
		Options:     opts,
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return src
}

func TestSource_Exists(t *testing.T) {
	svc := &fakeBlobService{container: "legal-docs"}
	src := newTestSource(t, svc, nil)

	exists, err := src.Exists(context.Background())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected container to exist")
	}
}

func TestSource_ExistsMissingContainer(t *testing.T) {
	svc := &fakeBlobService{container: "legal-docs", missing: true}
	src := newTestSource(t, svc, nil)

	exists, err := src.Exists(context.Background())
	if err != nil {
		t.Fatalf("missing container should not be an error: %v", err)
	}
	if exists {
		t.Error("expected container to be reported missing")
	}

	status, _ := src.HealthCheck(context.Background())
	if status.Healthy || status.Error != "container not found" {
		t.Errorf("unexpected health status: %+v", status)
	}
}

func TestSource_ListPages(t *testing.T) {
	svc := &fakeBlobService{
		container: "legal-docs",
		names:     []string{"A/1.pdf", "A/2.docx", "A/sub/3.pdf", "B/4.pdf"},
		data:      map[string][]byte{},
	}
	src := newTestSource(t, svc, map[string]interface{}{"page_size": 2})

	var keys []string
	for key, err := range src.List(context.Background(), "A/") {
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		keys = append(keys, key)
	}

	want := []string{"A/1.pdf", "A/2.docx", "A/sub/3.pdf"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, keys)
	}
	if svc.listCalls != 2 {
		t.Errorf("expected 2 list pages, got %d", svc.listCalls)
	}
}

func TestSource_ListStopsEarly(t *testing.T) {
	svc := &fakeBlobService{
		container: "legal-docs",
		names:     []string{"A/1.pdf", "A/2.pdf", "A/3.pdf"},
	}
	src := newTestSource(t, svc, map[string]interface{}{"page_size": 1})

	for range src.List(context.Background(), "A/") {
		break
	}
	if svc.listCalls != 1 {
		t.Errorf("expected a single page fetch, got %d", svc.listCalls)
	}
}

func TestSource_OpenRead(t *testing.T) {
	svc := &fakeBlobService{
		container: "legal-docs",
		names:     []string{"A/1.pdf"},
		data:      map[string][]byte{"A/1.pdf": []byte("%PDF-1.7")},
	}
	src := newTestSource(t, svc, nil)

	body, size, err := src.OpenRead(context.Background(), "A/1.pdf")
	if err != nil {
		t.Fatalf("OpenRead failed: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "%PDF-1.7" {
		t.Errorf("unexpected content %q", data)
	}
	if size != int64(len("%PDF-1.7")) {
		t.Errorf("unexpected size %d", size)
	}
	if stats := src.GetMetrics().GetStats(); stats.BytesTotal != size {
		t.Errorf("expected %d bytes recorded, got %d", size, stats.BytesTotal)
	}
}

func TestSource_OpenReadMissingBlob(t *testing.T) {
	svc := &fakeBlobService{container: "legal-docs", data: map[string][]byte{}}
	src := newTestSource(t, svc, nil)

	_, _, err := src.OpenRead(context.Background(), "A/missing.pdf")
	var connErr *base.ConnectorError
	if !errors.As(err, &connErr) || connErr.Operation != "OpenRead" {
		t.Errorf("expected OpenRead ConnectorError, got %v", err)
	}
}

func TestSource_ConnectValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *base.ConnectorConfig
		want string
	}{
		{
			name: "missing container",
			cfg:  &base.ConnectorConfig{Credentials: map[string]string{"connection_string": "x"}},
			want: "container",
		},
		{
			name: "no auth",
			cfg:  &base.ConnectorConfig{Options: map[string]interface{}{"container": "docs"}},
			want: "no authentication method provided",
		},
		{
			name: "account key without account name",
			cfg: &base.ConnectorConfig{
				Credentials: map[string]string{"account_key": devAccountKey},
				Options:     map[string]interface{}{"container": "docs"},
			},
			want: "account_name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSource().Connect(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSource_SharedKey(t *testing.T) {
	src := NewSource()
	err := src.Connect(context.Background(), &base.ConnectorConfig{
		Credentials: map[string]string{"account_key": devAccountKey},
		Options:     map[string]interface{}{"container": "docs", "account_name": "archive"},
	})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if src.serviceURL() != "https://archive.blob.core.windows.net/" {
		t.Errorf("unexpected service URL %s", src.serviceURL())
	}
	if !src.IsConnected() || src.Container() != "docs" {
		t.Error("expected connected source for container docs")
	}
}

func TestSource_NotConnected(t *testing.T) {
	src := NewSource()

	if _, err := src.Exists(context.Background()); err == nil {
		t.Error("expected Exists error before Connect")
	}
	for _, err := range src.List(context.Background(), "A/") {
		if err == nil {
			t.Error("expected List error before Connect")
		}
	}
	if _, _, err := src.OpenRead(context.Background(), "A/x.pdf"); err == nil {
		t.Error("expected OpenRead error before Connect")
	}
	status, _ := src.HealthCheck(context.Background())
	if status.Healthy {
		t.Error("expected unhealthy status before Connect")
	}
}
