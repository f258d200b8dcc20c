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
Command docbridge runs the docbridge migration trigger service.

# Usage

	docbridge

# Environment Variables

Required (checked on every migrate call):
  - AZURE_STORAGE_CONNECTION_STRING: source storage credential (azureblob)
  - BLOB_CONTAINER_NAME: source container
  - SHAREPOINT_SITE_URL: destination site, e.g. https://contoso.sharepoint.com/sites/legal
  - SHAREPOINT_LIBRARY_NAME: destination document library
  - SHAREPOINT_TENANT_ID, SHAREPOINT_CLIENT_ID, SHAREPOINT_CLIENT_SECRET: app registration

Optional:
  - PORT: HTTP server port (default: 8080)
  - SOURCE_TYPE: azureblob, s3 or gcs (default: azureblob)
  - MIGRATION_OVERWRITE: replace existing files (default: true)
  - FOLDER_CACHE: none, memory or redis (default: none)
  - TRIGGER_JWT_SECRET: require HS256 bearer tokens on /api routes
  - DOCBRIDGE_CONFIG_FILE: YAML overlay

# Example

	export AZURE_STORAGE_CONNECTION_STRING="UseDevelopmentStorage=true"
	export BLOB_CONTAINER_NAME=legal-docs
	./docbridge
	curl -X POST localhost:8080/api/migrate -d '{"blobFolderPath":"Cases/0012"}'
*/
package main

import (
	"docbridge/migrator"
)

func main() {
	migrator.Run()
}
