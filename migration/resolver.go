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
	"fmt"
	"strings"
)

// Resolver maps slash-delimited folder paths to remote folder handles,
// creating any missing folders on the way down.
type Resolver struct {
	tree      RemoteTree
	cache     FolderCache
	namespace string
}

// NewResolver creates a Resolver without a cache. Every call re-walks the tree.
func NewResolver(tree RemoteTree) *Resolver {
	return &Resolver{tree: tree}
}

// WithCache enables folder handle caching scoped to namespace
func (r *Resolver) WithCache(cache FolderCache, namespace string) *Resolver {
	r.cache = cache
	r.namespace = namespace
	return r
}

// EnsurePath returns the handle of the folder at path. The empty path and "/"
// resolve to RootFolder without contacting the remote store. A failed list or
// create aborts the walk; folders created before the failure are left in place.
func (r *Resolver) EnsurePath(ctx context.Context, path string) (FolderHandle, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return RootFolder, nil
	}

	parent, start := r.deepestCached(ctx, segments)

	for i := start; i < len(segments); i++ {
		handle, err := r.resolveSegment(ctx, parent, segments[i])
		if err != nil {
			return "", fmt.Errorf("failed to resolve folder %q: %w", strings.Join(segments[:i+1], "/"), err)
		}
		parent = handle
		if r.cache != nil {
			r.cache.Put(ctx, FolderCacheKey(r.namespace, segments[:i+1]), handle)
		}
	}

	return parent, nil
}

// deepestCached returns the longest cached prefix of segments and the index of
// the first segment still to resolve.
func (r *Resolver) deepestCached(ctx context.Context, segments []string) (FolderHandle, int) {
	if r.cache == nil {
		return RootFolder, 0
	}
	for i := len(segments); i > 0; i-- {
		if h, ok := r.cache.Get(ctx, FolderCacheKey(r.namespace, segments[:i])); ok {
			return h, i
		}
	}
	return RootFolder, 0
}

func (r *Resolver) resolveSegment(ctx context.Context, parent FolderHandle, name string) (FolderHandle, error) {
	children, err := r.tree.ListChildren(ctx, parent)
	if err != nil {
		return "", err
	}
	for _, child := range children {
		if child.IsFolder && strings.EqualFold(child.Name, name) {
			return child.ID, nil
		}
	}
	return r.tree.CreateFolder(ctx, parent, name)
}
