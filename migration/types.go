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

package migration

import (
	"context"
	"io"
	"iter"
)

// SourceEntry identifies one object in the blob source by its fully-qualified key
type SourceEntry struct {
	Key string
}

// FolderHandle is the remote store's opaque identifier for a folder node
type FolderHandle string

// RootFolder denotes the root of the document library
const RootFolder FolderHandle = "root"

// ConflictPolicy tells the sink what to do when an item with the same name exists
type ConflictPolicy string

const (
	// ConflictReplace overwrites the existing item
	ConflictReplace ConflictPolicy = "replace"
	// ConflictFail rejects the upload
	ConflictFail ConflictPolicy = "fail"
)

// RemoteItem is a child entry returned by a folder listing
type RemoteItem struct {
	ID       FolderHandle
	Name     string
	IsFolder bool
}

// BlobSource is the read side of a migration
type BlobSource interface {
	// Exists reports whether the configured container or bucket exists
	Exists(ctx context.Context) (bool, error)

	// List lazily yields every key that starts with prefix, in store order
	List(ctx context.Context, prefix string) iter.Seq2[string, error]

	// OpenRead opens a stream for key; size is -1 when unknown
	OpenRead(ctx context.Context, key string) (body io.ReadCloser, size int64, err error)
}

// RemoteTree is the folder surface of a document library
type RemoteTree interface {
	ListChildren(ctx context.Context, parent FolderHandle) ([]RemoteItem, error)
	CreateFolder(ctx context.Context, parent FolderHandle, name string) (FolderHandle, error)
}

// DocumentLibrary is the write side of a migration: an authenticated session
// against one library, reused for every folder and file operation of a run
type DocumentLibrary interface {
	RemoteTree

	// Upload stores r as leafName under folder and returns the remote item id
	Upload(ctx context.Context, folder FolderHandle, leafName string, r io.Reader, size int64, policy ConflictPolicy) (string, error)

	// Exists reports whether leafName is already present under folder
	Exists(ctx context.Context, folder FolderHandle, leafName string) (bool, error)

	// Identity names the library (site + drive); used to scope folder caches
	Identity() string
}

// SessionFactory creates the DocumentLibrary session for a run
type SessionFactory func(ctx context.Context) (DocumentLibrary, error)
