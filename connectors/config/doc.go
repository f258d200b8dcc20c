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

/*
Package config loads the docbridge runtime configuration.

Values come from three layers, applied in order:

  - Environment variables (AZURE_STORAGE_CONNECTION_STRING, BLOB_CONTAINER_NAME,
    SHAREPOINT_SITE_URL, ...)
  - An optional YAML file named by DOCBRIDGE_CONFIG_FILE; ${VAR} and
    ${VAR:-default} references are expanded before parsing
  - An optional AWS Secrets Manager secret (SHAREPOINT_CLIENT_SECRET_ARN) that
    supplies the document library client secret

Configuration is loaded once per trigger invocation. Missing required values
are reported together as a *ConfigurationError before any migration starts.

# Example file

	source:
	  type: azureblob
	  container: ${BLOB_CONTAINER_NAME:-legal-docs}
	sharepoint:
	  site_url: https://contoso.sharepoint.com/sites/legal
	  library: Documents
	migration:
	  overwrite: false
	  folder_cache: redis
	  redis_url: ${REDIS_URL:-redis://localhost:6379/0}
*/
package config
