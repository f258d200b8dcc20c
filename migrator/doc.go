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

// Package migrator wires configuration, storage connectors and the migration
// engine together and exposes them over HTTP.
//
// Routes:
//
//	POST /api/migrate   run a migration for {"blobFolderPath": "..."}
//	GET  /health        liveness
//	GET  /metrics       connector metrics snapshot (JSON)
//	GET  /prometheus    Prometheus exposition
//
// Configuration is re-read on every migrate call so secret rotation and
// environment changes take effect without a restart.
package migrator
