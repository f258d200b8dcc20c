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
Package base provides the core interfaces and types shared by docbridge
storage connectors.

# Overview

Every backend docbridge talks to (Azure Blob Storage, Amazon S3, Google Cloud
Storage and SharePoint document libraries) is wrapped in a connector with the
same lifecycle:

	type Connector interface {
	    Connect(ctx context.Context, config *ConnectorConfig) error
	    Disconnect(ctx context.Context) error
	    HealthCheck(ctx context.Context) (*HealthStatus, error)
	    Name() string
	    Type() string
	}

Source connectors additionally implement migration.BlobSource and the sink
connector implements migration.DocumentLibrary.

# Configuration

Connectors are configured through ConnectorConfig. Secrets go in Credentials,
backend-specific settings in Options:

	config := &ConnectorConfig{
	    Name: "case-archive",
	    Type: "azureblob",
	    Credentials: map[string]string{
	        "connection_string": os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
	    },
	    Options: map[string]interface{}{
	        "container": "legal-docs",
	    },
	    Timeout: 30 * time.Second,
	}

# Errors

Connector failures are reported as *ConnectorError, which names the connector
and operation and wraps the underlying cause:

	if err := conn.Connect(ctx, config); err != nil {
	    var connErr *ConnectorError
	    if errors.As(err, &connErr) {
	        log.Printf("%s failed during %s", connErr.ConnectorName, connErr.Operation)
	    }
	}
*/
package base
