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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePath_RootWithoutRemoteCalls(t *testing.T) {
	lib := NewMockLibrary()
	resolver := NewResolver(lib)

	for _, p := range []string{"", "/", "//"} {
		handle, err := resolver.EnsurePath(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, RootFolder, handle)
	}

	assert.Empty(t, lib.ListCalls())
	assert.Empty(t, lib.CreateCalls())
}

func TestEnsurePath_CreatesMissingSegments(t *testing.T) {
	lib := NewMockLibrary()
	resolver := NewResolver(lib)

	handle, err := resolver.EnsurePath(context.Background(), "X/Y")
	require.NoError(t, err)

	creates := lib.CreateCalls()
	require.Len(t, creates, 2)
	assert.Equal(t, CreateCall{Parent: RootFolder, Name: "X"}, creates[0])

	xHandle := lib.ListCalls()[1]
	assert.Equal(t, CreateCall{Parent: xHandle, Name: "Y"}, creates[1])

	children, err := lib.ListChildren(context.Background(), xHandle)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, children[0].ID, handle)
}

func TestEnsurePath_ExistingParentMissingChild(t *testing.T) {
	lib := NewMockLibrary()
	x := lib.AddFolder(RootFolder, "X")
	resolver := NewResolver(lib)

	_, err := resolver.EnsurePath(context.Background(), "X/Y")
	require.NoError(t, err)

	assert.Equal(t, []FolderHandle{RootFolder, x}, lib.ListCalls())
	assert.Equal(t, []CreateCall{{Parent: x, Name: "Y"}}, lib.CreateCalls())
}

func TestEnsurePath_CaseInsensitiveMatch(t *testing.T) {
	lib := NewMockLibrary()
	x := lib.AddFolder(RootFolder, "CaseDocs")
	resolver := NewResolver(lib)

	handle, err := resolver.EnsurePath(context.Background(), "casedocs")
	require.NoError(t, err)
	assert.Equal(t, x, handle)
	assert.Empty(t, lib.CreateCalls())
}

func TestEnsurePath_IgnoresFilesWithSameName(t *testing.T) {
	lib := NewMockLibrary()
	lib.AddFile(RootFolder, "Reports", []byte("not a folder"))
	resolver := NewResolver(lib)

	_, err := resolver.EnsurePath(context.Background(), "Reports")
	require.NoError(t, err)
	assert.Equal(t, []CreateCall{{Parent: RootFolder, Name: "Reports"}}, lib.CreateCalls())
}

func TestEnsurePath_Idempotent(t *testing.T) {
	lib := NewMockLibrary()
	resolver := NewResolver(lib)

	first, err := resolver.EnsurePath(context.Background(), "CaseDocs/0012/Subpoena")
	require.NoError(t, err)
	require.Len(t, lib.CreateCalls(), 3)

	lib.ResetCalls()
	second, err := resolver.EnsurePath(context.Background(), "CaseDocs/0012/Subpoena")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, lib.CreateCalls())
	assert.Len(t, lib.ListCalls(), 3, "without a cache every segment is re-walked")
}

func TestEnsurePath_ListErrorAborts(t *testing.T) {
	lib := NewMockLibrary()
	lib.SetListError(&RemoteStoreError{StatusCode: 503, Code: "serviceNotAvailable", Message: "try later"})
	resolver := NewResolver(lib)

	_, err := resolver.EnsurePath(context.Background(), "X/Y")
	require.Error(t, err)

	var rse *RemoteStoreError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, "serviceNotAvailable", rse.Code)
	assert.Empty(t, lib.CreateCalls())
}

func TestEnsurePath_CreateErrorLeavesEarlierSegments(t *testing.T) {
	lib := NewMockLibrary()
	x := lib.AddFolder(RootFolder, "X")
	lib.SetCreateError(&RemoteStoreError{StatusCode: 403, Code: "accessDenied", Message: "denied"})
	resolver := NewResolver(lib)

	_, err := resolver.EnsurePath(context.Background(), "X/Y/Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"X/Y"`)
	assert.Equal(t, []CreateCall{{Parent: x, Name: "Y"}}, lib.CreateCalls())
}

func TestEnsurePath_WithCache(t *testing.T) {
	lib := NewMockLibrary()
	cache := NewMemoryFolderCache()
	resolver := NewResolver(lib).WithCache(cache, lib.Identity())

	first, err := resolver.EnsurePath(context.Background(), "A/B")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	lib.ResetCalls()
	second, err := resolver.EnsurePath(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Empty(t, lib.ListCalls())
	assert.Empty(t, lib.CreateCalls())

	lib.ResetCalls()
	_, err = resolver.EnsurePath(context.Background(), "A/B/C")
	require.NoError(t, err)
	assert.Equal(t, []FolderHandle{first}, lib.ListCalls(), "walk resumes from the deepest cached prefix")
	assert.Len(t, lib.CreateCalls(), 1)
}

func TestFolderCacheKey(t *testing.T) {
	assert.Equal(t, "lib|casedocs/0012", FolderCacheKey("lib", []string{"CaseDocs", "0012"}))
	assert.NotEqual(t, FolderCacheKey("lib1", []string{"A"}), FolderCacheKey("lib2", []string{"A"}))
}
