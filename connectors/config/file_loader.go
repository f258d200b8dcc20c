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
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the YAML overlay. Only fields present in the file override
// the environment.
type ConfigFile struct {
	Source     SourceFileConfig     `yaml:"source,omitempty"`
	SharePoint SharePointFileConfig `yaml:"sharepoint,omitempty"`
	Migration  MigrationFileConfig  `yaml:"migration,omitempty"`
	Server     ServerFileConfig     `yaml:"server,omitempty"`
}

// SourceFileConfig overrides SourceConfig
type SourceFileConfig struct {
	Type                  string `yaml:"type,omitempty"`
	Container             string `yaml:"container,omitempty"`
	Endpoint              string `yaml:"endpoint,omitempty"`
	PageSize              int    `yaml:"page_size,omitempty"`
	ConnectionString      string `yaml:"connection_string,omitempty"`
	AccountName           string `yaml:"account_name,omitempty"`
	AccountKey            string `yaml:"account_key,omitempty"`
	UseManagedIdentity    *bool  `yaml:"use_managed_identity,omitempty"`
	Region                string `yaml:"region,omitempty"`
	AccessKeyID           string `yaml:"access_key_id,omitempty"`
	SecretAccessKey       string `yaml:"secret_access_key,omitempty"`
	ForcePathStyle        *bool  `yaml:"force_path_style,omitempty"`
	CredentialsFile       string `yaml:"credentials_file,omitempty"`
	WithoutAuthentication *bool  `yaml:"without_authentication,omitempty"`
}

// SharePointFileConfig overrides SinkConfig
type SharePointFileConfig struct {
	SiteURL         string  `yaml:"site_url,omitempty"`
	Library         string  `yaml:"library,omitempty"`
	TenantID        string  `yaml:"tenant_id,omitempty"`
	ClientID        string  `yaml:"client_id,omitempty"`
	ClientSecret    string  `yaml:"client_secret,omitempty"`
	ClientSecretARN string  `yaml:"client_secret_arn,omitempty"`
	GraphEndpoint   string  `yaml:"graph_endpoint,omitempty"`
	ChunkSize       int     `yaml:"chunk_size,omitempty"`
	MaxRPS          float64 `yaml:"max_rps,omitempty"`
}

// MigrationFileConfig overrides MigrationConfig
type MigrationFileConfig struct {
	Overwrite      *bool  `yaml:"overwrite,omitempty"`
	FolderCache    string `yaml:"folder_cache,omitempty"`
	RedisURL       string `yaml:"redis_url,omitempty"`
	FolderCacheTTL string `yaml:"folder_cache_ttl,omitempty"`
}

// ServerFileConfig overrides ServerConfig
type ServerFileConfig struct {
	Port             string `yaml:"port,omitempty"`
	TriggerJWTSecret string `yaml:"trigger_jwt_secret,omitempty"`
	AWSRegion        string `yaml:"aws_region,omitempty"`
}

// ReadConfigFile reads and parses a YAML config file after expanding environment references
func ReadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file ConfigFile
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &file, nil
}

// ApplyFile overlays the YAML file at path onto cfg
func ApplyFile(cfg *Config, path string) error {
	file, err := ReadConfigFile(path)
	if err != nil {
		return err
	}
	return file.Apply(cfg)
}

// Apply copies every value set in the file onto cfg
func (f *ConfigFile) Apply(cfg *Config) error {
	src := f.Source
	if src.Type != "" {
		cfg.Source.Type = strings.ToLower(src.Type)
	}
	overrideString(&cfg.Source.Container, src.Container)
	overrideString(&cfg.Source.Endpoint, src.Endpoint)
	overrideString(&cfg.Source.ConnectionString, src.ConnectionString)
	overrideString(&cfg.Source.AccountName, src.AccountName)
	overrideString(&cfg.Source.AccountKey, src.AccountKey)
	overrideString(&cfg.Source.Region, src.Region)
	overrideString(&cfg.Source.AccessKeyID, src.AccessKeyID)
	overrideString(&cfg.Source.SecretAccessKey, src.SecretAccessKey)
	overrideString(&cfg.Source.CredentialsFile, src.CredentialsFile)
	overrideBool(&cfg.Source.UseManagedIdentity, src.UseManagedIdentity)
	overrideBool(&cfg.Source.ForcePathStyle, src.ForcePathStyle)
	overrideBool(&cfg.Source.WithoutAuthentication, src.WithoutAuthentication)
	if src.PageSize > 0 {
		cfg.Source.PageSize = src.PageSize
	}

	sp := f.SharePoint
	overrideString(&cfg.Sink.SiteURL, sp.SiteURL)
	overrideString(&cfg.Sink.LibraryName, sp.Library)
	overrideString(&cfg.Sink.TenantID, sp.TenantID)
	overrideString(&cfg.Sink.ClientID, sp.ClientID)
	overrideString(&cfg.Sink.ClientSecret, sp.ClientSecret)
	overrideString(&cfg.Sink.ClientSecretARN, sp.ClientSecretARN)
	overrideString(&cfg.Sink.GraphEndpoint, sp.GraphEndpoint)
	if sp.ChunkSize > 0 {
		cfg.Sink.ChunkSize = sp.ChunkSize
	}
	if sp.MaxRPS > 0 {
		cfg.Sink.MaxRPS = sp.MaxRPS
	}

	m := f.Migration
	overrideBool(&cfg.Migration.Overwrite, m.Overwrite)
	if m.FolderCache != "" {
		cfg.Migration.FolderCache = strings.ToLower(m.FolderCache)
	}
	overrideString(&cfg.Migration.RedisURL, m.RedisURL)
	if m.FolderCacheTTL != "" {
		ttl, err := time.ParseDuration(m.FolderCacheTTL)
		if err != nil {
			return fmt.Errorf("invalid migration.folder_cache_ttl: %s", m.FolderCacheTTL)
		}
		cfg.Migration.FolderCacheTTL = ttl
	}

	overrideString(&cfg.Server.Port, f.Server.Port)
	overrideString(&cfg.Server.TriggerJWTSecret, f.Server.TriggerJWTSecret)
	overrideString(&cfg.Server.AWSRegion, f.Server.AWSRegion)
	return nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overrideBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// envVarRegex matches ${VAR_NAME} or $VAR_NAME patterns
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR_NAME}, ${VAR_NAME:-default} and $VAR_NAME.
// Undefined variables without a default expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		defaultVal := ""
		if idx := strings.Index(varName, ":-"); idx != -1 {
			defaultVal = varName[idx+2:]
			varName = varName[:idx]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultVal
	})
}
