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
Package azureblob provides the Azure Blob Storage migration source.

# Authentication

Three methods are supported, tried in this order:

  - Connection string (credential "connection_string"), the usual choice and
    the only one that works against the Azurite emulator
  - Shared key (option "account_name" + credential "account_key")
  - Azure AD through DefaultAzureCredential (option "use_managed_identity")

# Usage

	src := azureblob.NewSource()
	err := src.Connect(ctx, &base.ConnectorConfig{
	    Name: "case-archive",
	    Type: "azureblob",
	    Credentials: map[string]string{
	        "connection_string": os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
	    },
	    Options: map[string]interface{}{
	        "container": "legal-docs",
	    },
	})

	exists, err := src.Exists(ctx)
	for key, err := range src.List(ctx, "CaseDocs/0012/") {
	    ...
	}

A missing container is reported by Exists as (false, nil) so the migration
engine can surface it as an unavailable source rather than a transport error.
*/
package azureblob
