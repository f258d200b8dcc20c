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
Package s3 provides the Amazon S3 migration source.

Credentials come from the connector config (access_key_id/secret_access_key)
or, when absent, from the default AWS credential chain. Options:

  - bucket: bucket to migrate from (required)
  - region: AWS region (default us-east-1)
  - force_path_style: use path-style addressing (MinIO, LocalStack)
  - page_size: ListObjectsV2 page size (default 1000)

The connector Endpoint overrides the service endpoint for S3-compatible stores.
*/
package s3
