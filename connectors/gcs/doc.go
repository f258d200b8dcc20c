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

// Package gcs provides the Google Cloud Storage migration source.
//
// Authentication uses a service account file or JSON from the connector
// credentials, falling back to Application Default Credentials. Setting the
// connector Endpoint together with the "without_authentication" option points
// the client at a local emulator such as fake-gcs-server.
package gcs
