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

package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"docbridge/connectors/base"
)

// Source backends
const (
	SourceAzureBlob = "azureblob"
	SourceS3        = "s3"
	SourceGCS       = "gcs"
)

// Folder cache modes
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the complete runtime configuration of one migration run
type Config struct {
	Source    SourceConfig
	Sink      SinkConfig
	Migration MigrationConfig
	Server    ServerConfig
}

// SourceConfig describes the blob container or bucket files are read from
type SourceConfig struct {
	Type      string
	Container string
	Endpoint  string
	PageSize  int

	// azureblob
	ConnectionString   string
	AccountName        string
	AccountKey         string
	UseManagedIdentity bool

	// s3
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool

	// gcs
	CredentialsFile       string
	WithoutAuthentication bool
}

// SinkConfig describes the SharePoint document library files are written to
type SinkConfig struct {
	SiteURL         string
	LibraryName     string
	TenantID        string
	ClientID        string
	ClientSecret    string
	ClientSecretARN string
	GraphEndpoint   string
	ChunkSize       int
	MaxRPS          float64
}

// MigrationConfig tunes the transfer engine
type MigrationConfig struct {
	Overwrite      bool
	FolderCache    string
	RedisURL       string
	FolderCacheTTL time.Duration
}

// ServerConfig configures the HTTP trigger
type ServerConfig struct {
	Port             string
	TriggerJWTSecret string
	AWSRegion        string
}

// LoadFromEnv reads the configuration from environment variables without validating it
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Source: SourceConfig{
			Type:     strings.ToLower(getEnvOrDefault("SOURCE_TYPE", SourceAzureBlob)),
			Endpoint: os.Getenv("SOURCE_ENDPOINT"),
		},
		Sink: SinkConfig{
			SiteURL:         os.Getenv("SHAREPOINT_SITE_URL"),
			LibraryName:     os.Getenv("SHAREPOINT_LIBRARY_NAME"),
			TenantID:        os.Getenv("SHAREPOINT_TENANT_ID"),
			ClientID:        os.Getenv("SHAREPOINT_CLIENT_ID"),
			ClientSecret:    os.Getenv("SHAREPOINT_CLIENT_SECRET"),
			ClientSecretARN: os.Getenv("SHAREPOINT_CLIENT_SECRET_ARN"),
			GraphEndpoint:   os.Getenv("GRAPH_BASE_URL"),
		},
		Migration: MigrationConfig{
			FolderCache: strings.ToLower(getEnvOrDefault("FOLDER_CACHE", CacheNone)),
			RedisURL:    getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		},
		Server: ServerConfig{
			Port:             getEnvOrDefault("PORT", "8080"),
			TriggerJWTSecret: os.Getenv("TRIGGER_JWT_SECRET"),
			AWSRegion:        getEnvOrDefault("AWS_REGION", "us-east-1"),
		},
	}

	var err error
	if cfg.Source.PageSize, err = getEnvInt("SOURCE_PAGE_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.Sink.ChunkSize, err = getEnvInt("SHAREPOINT_CHUNK_SIZE", 0); err != nil {
		return nil, err
	}
	if v := os.Getenv("SHAREPOINT_MAX_RPS"); v != "" {
		if cfg.Sink.MaxRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid SHAREPOINT_MAX_RPS format: %s", v)
		}
	}
	if cfg.Migration.Overwrite, err = getEnvBool("MIGRATION_OVERWRITE", true); err != nil {
		return nil, err
	}
	if v := os.Getenv("FOLDER_CACHE_TTL"); v != "" {
		if cfg.Migration.FolderCacheTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid FOLDER_CACHE_TTL format: %s", v)
		}
	}

	switch cfg.Source.Type {
	case SourceAzureBlob:
		cfg.Source.Container = os.Getenv("BLOB_CONTAINER_NAME")
		cfg.Source.ConnectionString = os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
		cfg.Source.AccountName = os.Getenv("AZURE_STORAGE_ACCOUNT_NAME")
		cfg.Source.AccountKey = os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")
		if cfg.Source.UseManagedIdentity, err = getEnvBool("AZURE_STORAGE_USE_MANAGED_IDENTITY", false); err != nil {
			return nil, err
		}
	case SourceS3:
		cfg.Source.Container = os.Getenv("S3_BUCKET")
		cfg.Source.Region = cfg.Server.AWSRegion
		cfg.Source.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		cfg.Source.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
		if cfg.Source.ForcePathStyle, err = getEnvBool("S3_FORCE_PATH_STYLE", false); err != nil {
			return nil, err
		}
	case SourceGCS:
		cfg.Source.Container = os.Getenv("GCS_BUCKET")
		cfg.Source.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if cfg.Source.WithoutAuthentication, err = getEnvBool("GCS_WITHOUT_AUTHENTICATION", false); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported SOURCE_TYPE: %s", cfg.Source.Type)
	}

	return cfg, nil
}

// LoadServerConfig reads the service settings (port, trigger secret) from the
// environment and the optional YAML overlay. Run settings are not validated here;
// they are loaded again for every migration.
func LoadServerConfig() (*ServerConfig, error) {
	cfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if path := os.Getenv("DOCBRIDGE_CONFIG_FILE"); path != "" {
		if err := ApplyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return &cfg.Server, nil
}

// Load builds the configuration for one run: environment, then the optional
// YAML overlay, then the client secret from Secrets Manager. The result is validated.
func Load(ctx context.Context, secrets SecretsManager) (*Config, error) {
	cfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}

	if path := os.Getenv("DOCBRIDGE_CONFIG_FILE"); path != "" {
		if err := ApplyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if cfg.Sink.ClientSecret == "" && cfg.Sink.ClientSecretARN != "" {
		if secrets == nil {
			if secrets, err = NewAWSSecretsManager(ctx, AWSSecretsManagerOptions{Region: cfg.Server.AWSRegion}); err != nil {
				return nil, err
			}
		}
		if err := cfg.resolveClientSecret(ctx, secrets); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveClientSecret(ctx context.Context, secrets SecretsManager) error {
	values, err := secrets.GetSecret(ctx, c.Sink.ClientSecretARN)
	if err != nil {
		return fmt.Errorf("failed to resolve SharePoint client secret: %w", err)
	}

	secret := values["client_secret"]
	if secret == "" {
		secret = values["value"]
	}
	c.Sink.ClientSecret = secret

	// the secret may carry the rest of the app registration
	if c.Sink.ClientID == "" {
		c.Sink.ClientID = values["client_id"]
	}
	if c.Sink.TenantID == "" {
		c.Sink.TenantID = values["tenant_id"]
	}
	return nil
}

// Validate reports every missing required setting in one ConfigurationError
func (c *Config) Validate() error {
	var missing []string
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch c.Source.Type {
	case SourceAzureBlob:
		hasKey := c.Source.AccountName != "" && c.Source.AccountKey != ""
		hasIdentity := c.Source.UseManagedIdentity && (c.Source.AccountName != "" || c.Source.Endpoint != "")
		if c.Source.ConnectionString == "" && !hasKey && !hasIdentity {
			missing = append(missing, "AZURE_STORAGE_CONNECTION_STRING")
		}
		require(c.Source.Container, "BLOB_CONTAINER_NAME")
	case SourceS3:
		require(c.Source.Container, "S3_BUCKET")
	case SourceGCS:
		require(c.Source.Container, "GCS_BUCKET")
	default:
		return fmt.Errorf("unsupported source type: %s", c.Source.Type)
	}

	require(c.Sink.SiteURL, "SHAREPOINT_SITE_URL")
	require(c.Sink.LibraryName, "SHAREPOINT_LIBRARY_NAME")
	require(c.Sink.ClientID, "SHAREPOINT_CLIENT_ID")
	require(c.Sink.ClientSecret, "SHAREPOINT_CLIENT_SECRET")
	require(c.Sink.TenantID, "SHAREPOINT_TENANT_ID")

	if c.Migration.FolderCache == CacheRedis {
		require(c.Migration.RedisURL, "REDIS_URL")
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	switch c.Migration.FolderCache {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("invalid FOLDER_CACHE %q (expected none, memory or redis)", c.Migration.FolderCache)
	}
	return nil
}

// SourceConnectorConfig builds the connector configuration for the configured source backend
func (c *Config) SourceConnectorConfig() *base.ConnectorConfig {
	cfg := &base.ConnectorConfig{
		Name:        "source",
		Type:        c.Source.Type,
		Endpoint:    c.Source.Endpoint,
		Credentials: make(map[string]string),
		Options:     make(map[string]interface{}),
		Timeout:     30 * time.Second,
	}
	if c.Source.PageSize > 0 {
		cfg.Options["page_size"] = c.Source.PageSize
	}

	switch c.Source.Type {
	case SourceAzureBlob:
		cfg.Options["container"] = c.Source.Container
		setIfNotEmpty(cfg.Credentials, "connection_string", c.Source.ConnectionString)
		setIfNotEmpty(cfg.Credentials, "account_key", c.Source.AccountKey)
		if c.Source.AccountName != "" {
			cfg.Options["account_name"] = c.Source.AccountName
		}
		if c.Source.UseManagedIdentity {
			cfg.Options["use_managed_identity"] = true
		}
	case SourceS3:
		cfg.Options["bucket"] = c.Source.Container
		cfg.Options["region"] = c.Source.Region
		cfg.Options["force_path_style"] = c.Source.ForcePathStyle
		setIfNotEmpty(cfg.Credentials, "access_key_id", c.Source.AccessKeyID)
		setIfNotEmpty(cfg.Credentials, "secret_access_key", c.Source.SecretAccessKey)
	case SourceGCS:
		cfg.Options["bucket"] = c.Source.Container
		cfg.Options["without_authentication"] = c.Source.WithoutAuthentication
		setIfNotEmpty(cfg.Credentials, "credentials_file", c.Source.CredentialsFile)
	}
	return cfg
}

// SinkConnectorConfig builds the connector configuration for the SharePoint library
func (c *Config) SinkConnectorConfig() *base.ConnectorConfig {
	cfg := &base.ConnectorConfig{
		Name:     "sharepoint",
		Type:     "sharepoint",
		Endpoint: c.Sink.GraphEndpoint,
		Credentials: map[string]string{
			"tenant_id":     c.Sink.TenantID,
			"client_id":     c.Sink.ClientID,
			"client_secret": c.Sink.ClientSecret,
		},
		Options: map[string]interface{}{
			"site_url": c.Sink.SiteURL,
			"library":  c.Sink.LibraryName,
		},
		Timeout: 30 * time.Second,
	}
	if c.Sink.ChunkSize > 0 {
		cfg.Options["chunk_size"] = c.Sink.ChunkSize
	}
	if c.Sink.MaxRPS > 0 {
		cfg.Options["max_rps"] = c.Sink.MaxRPS
	}
	return cfg
}

func setIfNotEmpty(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %s", key, v)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s format: %s", key, v)
	}
	return b, nil
}
