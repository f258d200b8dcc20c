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
Package sharepoint implements the migration sink on top of a SharePoint
document library, reached through Microsoft Graph.

# Session

Connect performs the whole session setup up front:

 1. Acquire an app-only token (client credentials) for
    https://graph.microsoft.com/.default through azidentity
 2. Resolve the site from its URL: GET /sites/{host}:/{path}
 3. Find the library among the site's drives by name (case-insensitive)

A rejected credential surfaces as *migration.SinkAuthenticationError; every
non-2xx Graph response is converted to *migration.RemoteStoreError carrying
the Graph error code and message.

# Folder handles

Folder handles are drive item ids. migration.RootFolder addresses the drive
root (/drives/{id}/root).

# Uploads

Files up to 4 MiB are sent with a single PUT to .../content. Larger files, or
files of unknown size that exceed the limit once buffered, go through an
upload session and are sent in 10 MiB chunks (a multiple of the 320 KiB
fragment size Graph requires).
*/
package sharepoint
