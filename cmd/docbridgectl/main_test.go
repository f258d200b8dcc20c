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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbridge/connectors/config"
	"docbridge/migration"
	"docbridge/migrator"
)

func stubRunner(t *testing.T, source *migration.MockSource, lib *migration.MockLibrary, cfgErr error) {
	t.Helper()
	prev := newRunner
	t.Cleanup(func() { newRunner = prev })

	newRunner = func() *migrator.Runner {
		return migrator.NewRunner(migrator.Dependencies{
			LoadConfig: func(ctx context.Context) (*config.Config, error) {
				if cfgErr != nil {
					return nil, cfgErr
				}
				return &config.Config{Migration: config.MigrationConfig{Overwrite: true}}, nil
			},
			NewSource: func(ctx context.Context, cfg *config.Config) (migration.BlobSource, error) {
				return source, nil
			},
			NewSession: func(cfg *config.Config) migration.SessionFactory {
				return migration.StaticSession(lib, nil)
			},
			NewFolderCache: func(ctx context.Context, cfg *config.Config) (migration.FolderCache, error) {
				return nil, nil
			},
		}, nil, nil)
	}
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	source := migration.NewMockSource().Put("Cases/0012/brief.pdf", []byte("brief"))
	lib := migration.NewMockLibrary()
	stubRunner(t, source, lib, nil)

	out, err := execute("migrate", "--prefix", "Cases/0012")
	require.NoError(t, err)

	var resp migrator.MigrateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Success", resp.Status)
	assert.Equal(t, 1, resp.FilesProcessed)
	assert.Len(t, lib.UploadCalls(), 1)
}

func TestMigrateCommand_RunError(t *testing.T) {
	source := migration.NewMockSource().SetMissing()
	stubRunner(t, source, migration.NewMockLibrary(), nil)

	out, err := execute("migrate", "--prefix", "Cases")
	var failed *errRunFailed
	require.ErrorAs(t, err, &failed)
	assert.Contains(t, out, `"status": "Error"`)
}

func TestMigrateCommand_PartialSuccessExitsZero(t *testing.T) {
	source := migration.NewMockSource().Put("a.pdf", []byte("a")).Put("b.pdf", []byte("b"))
	lib := migration.NewMockLibrary()
	lib.OnUpload(func(folder migration.FolderHandle, leaf string) error {
		if leaf == "b.pdf" {
			return errors.New("disk full")
		}
		return nil
	})
	stubRunner(t, source, lib, nil)

	out, err := execute("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "PartialSuccess"`)
}

func TestMigrateCommand_ConfigurationError(t *testing.T) {
	stubRunner(t, migration.NewMockSource(), migration.NewMockLibrary(),
		&config.ConfigurationError{Missing: []string{"BLOB_CONTAINER_NAME"}})

	_, err := execute("migrate", "--prefix", "Cases")
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConfigCheckCommand(t *testing.T) {
	for _, k := range []string{"SOURCE_TYPE", "DOCBRIDGE_CONFIG_FILE", "SHAREPOINT_CLIENT_SECRET_ARN", "FOLDER_CACHE", "MIGRATION_OVERWRITE"} {
		t.Setenv(k, "")
	}
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("BLOB_CONTAINER_NAME", "legal-docs")
	t.Setenv("SHAREPOINT_SITE_URL", "https://contoso.sharepoint.com/sites/legal")
	t.Setenv("SHAREPOINT_LIBRARY_NAME", "Documents")
	t.Setenv("SHAREPOINT_TENANT_ID", "tenant")
	t.Setenv("SHAREPOINT_CLIENT_ID", "client")
	t.Setenv("SHAREPOINT_CLIENT_SECRET", "supersecret")

	out, err := execute("config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration OK")
	assert.Contains(t, out, "azureblob (legal-docs)")
	assert.Contains(t, out, "supe****")
	assert.NotContains(t, out, "supersecret")

	t.Setenv("SHAREPOINT_CLIENT_SECRET", "")
	_, err = execute("config", "check")
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"SHAREPOINT_CLIENT_SECRET"}, cfgErr.Missing)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask(""))
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "abcd****", mask("abcdef"))
}
