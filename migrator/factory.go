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

package migrator

import (
	"context"
	"fmt"

	"docbridge/connectors/azureblob"
	"docbridge/connectors/base"
	"docbridge/connectors/config"
	"docbridge/connectors/gcs"
	"docbridge/connectors/rediscache"
	"docbridge/connectors/s3"
	"docbridge/connectors/sharepoint"
	"docbridge/migration"
)

// sourceConnector is what every source backend provides
type sourceConnector interface {
	base.Connector
	migration.BlobSource
}

// DefaultDependencies builds real connectors from the loaded configuration
func DefaultDependencies() Dependencies {
	return Dependencies{
		LoadConfig: func(ctx context.Context) (*config.Config, error) {
			return config.Load(ctx, nil)
		},
		NewSource:      newSource,
		NewSession:     newSession,
		NewFolderCache: newFolderCache,
	}
}

func newSourceConnector(sourceType string) (sourceConnector, error) {
	switch sourceType {
	case config.SourceAzureBlob:
		return azureblob.NewSource(), nil
	case config.SourceS3:
		return s3.NewSource(), nil
	case config.SourceGCS:
		return gcs.NewSource(), nil
	}
	return nil, fmt.Errorf("unsupported source type: %s", sourceType)
}

func newSource(ctx context.Context, cfg *config.Config) (migration.BlobSource, error) {
	src, err := newSourceConnector(cfg.Source.Type)
	if err != nil {
		return nil, err
	}
	if err := src.Connect(ctx, cfg.SourceConnectorConfig()); err != nil {
		return nil, err
	}
	return src, nil
}

// newSession defers the Graph handshake until the engine has files to move
func newSession(cfg *config.Config) migration.SessionFactory {
	return func(ctx context.Context) (migration.DocumentLibrary, error) {
		lib := sharepoint.NewLibrary()
		if err := lib.Connect(ctx, cfg.SinkConnectorConfig()); err != nil {
			return nil, err
		}
		return lib, nil
	}
}

func newFolderCache(ctx context.Context, cfg *config.Config) (migration.FolderCache, error) {
	switch cfg.Migration.FolderCache {
	case config.CacheMemory:
		return migration.NewMemoryFolderCache(), nil
	case config.CacheRedis:
		cache, err := rediscache.Connect(ctx, cfg.Migration.RedisURL, cfg.Migration.FolderCacheTTL)
		if err != nil {
			return nil, err
		}
		return cache, nil
	}
	return nil, nil
}
