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

func collectKeys(t *testing.T, source BlobSource, prefix string) []string {
	t.Helper()
	seq, err := Enumerate(context.Background(), source, prefix)
	require.NoError(t, err)

	var keys []string
	for entry, err := range seq {
		require.NoError(t, err)
		keys = append(keys, entry.Key)
	}
	return keys
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "A/", NormalizePrefix("A"))
	assert.Equal(t, "A/", NormalizePrefix("A/"))
	assert.Equal(t, "A/", NormalizePrefix("A///"))
	assert.Equal(t, "A/B/", NormalizePrefix("/A/B"))
	assert.Equal(t, "", NormalizePrefix(""))
	assert.Equal(t, "", NormalizePrefix("/"))
}

func TestEnumerate_OneLevelOnly(t *testing.T) {
	source := NewMockSource().
		Put("A/x.pdf", nil).
		Put("A/sub/y.pdf", nil)

	assert.Equal(t, []string{"A/x.pdf"}, collectKeys(t, source, "A/"))
}

func TestEnumerate_FiltersExtensions(t *testing.T) {
	source := NewMockSource().
		Put("A/one.PDF", nil).
		Put("A/two.txt", nil).
		Put("A/three.pdfx", nil).
		Put("A/four.Xlsx", nil)

	assert.Equal(t, []string{"A/one.PDF", "A/four.Xlsx"}, collectKeys(t, source, "A"))
}

func TestEnumerate_PreservesStoreOrder(t *testing.T) {
	source := NewMockSource().
		Put("A/z.pdf", nil).
		Put("A/a.pdf", nil).
		Put("A/m.doc", nil)

	assert.Equal(t, []string{"A/z.pdf", "A/a.pdf", "A/m.doc"}, collectKeys(t, source, "A/"))
}

func TestEnumerate_DoesNotMatchSiblingPrefix(t *testing.T) {
	source := NewMockSource().
		Put("A/x.pdf", nil).
		Put("AB/y.pdf", nil)

	assert.Equal(t, []string{"A/x.pdf"}, collectKeys(t, source, "A"))
	assert.Equal(t, []string{"A/"}, source.ListCalls())
}

func TestEnumerate_ContainerRoot(t *testing.T) {
	source := NewMockSource().
		Put("root.pdf", nil).
		Put("A/x.pdf", nil)

	assert.Equal(t, []string{"root.pdf"}, collectKeys(t, source, ""))
}

func TestEnumerate_SourceUnavailable(t *testing.T) {
	source := NewMockSource().Put("A/x.pdf", nil).SetMissing()

	seq, err := Enumerate(context.Background(), source, "A")
	assert.Nil(t, seq)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, 1, source.ExistsCalls())
	assert.Empty(t, source.ListCalls())
}

func TestEnumerate_ExistsError(t *testing.T) {
	source := NewMockSource().SetExistsError(errors.New("network down"))

	_, err := Enumerate(context.Background(), source, "A")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "network down")
}

func TestEnumerate_ListError(t *testing.T) {
	source := NewMockSource().
		Put("A/x.pdf", nil).
		SetListError(errors.New("page fetch failed"))

	seq, err := Enumerate(context.Background(), source, "A")
	require.NoError(t, err)

	var keys []string
	var listErr error
	for entry, err := range seq {
		if err != nil {
			listErr = err
			break
		}
		keys = append(keys, entry.Key)
	}
	assert.Equal(t, []string{"A/x.pdf"}, keys)
	require.Error(t, listErr)
	assert.Contains(t, listErr.Error(), "page fetch failed")
}

func TestEnumerate_Lazy(t *testing.T) {
	source := NewMockSource().Put("A/x.pdf", nil)

	_, err := Enumerate(context.Background(), source, "A")
	require.NoError(t, err)
	assert.Empty(t, source.ListCalls(), "listing must not start until the sequence is ranged over")
}
