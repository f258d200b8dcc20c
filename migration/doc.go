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
Package migration implements the blob-to-document-library transfer pipeline.

# Overview

A migration run copies the documents found directly under one source prefix
into a document library, recreating the prefix's folder structure on the
remote side:

	CaseDocs/0012/Subpoena/file.pdf  ->  <library root>/CaseDocs/0012/Subpoena/file.pdf

The pipeline is made of small pieces that can be tested in isolation:

  - IsAllowedExtension: the fixed, case-insensitive document type filter
  - Enumerate: one-level listing of a source prefix (no recursion)
  - ParsePath: splits a key into directory segments and a leaf name
  - Resolver: walks or creates remote folders segment by segment
  - Aggregator: folds per-file outcomes into a TransferReport
  - Engine: drives the whole run

# Collaborators

The engine never talks to a storage SDK directly. It consumes a BlobSource
(Azure Blob, S3 or GCS, see the connectors packages) and a DocumentLibrary
created on demand through a SessionFactory. The factory is invoked at most
once per run and only when there is at least one file to transfer.

# Failure Model

Source-unavailable and session-initialization failures abort the run before
any file is attempted. Every other failure is scoped to the file that caused
it: it is recorded as a Failed outcome and the run continues with the next
file.

# Concurrency

Files are processed strictly sequentially. The Resolver keeps no state
between calls unless a FolderCache is configured.
*/
package migration
