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
	"iter"
	"strings"
)

// NormalizePrefix trims surrounding separators and appends exactly one.
// An empty prefix addresses the container root and stays empty.
func NormalizePrefix(prefix string) string {
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}

// Enumerate lists the documents directly under prefix. Keys inside nested
// folders and keys with a non-document extension are skipped. The container
// existence check happens before the sequence is returned; a missing
// container yields ErrSourceUnavailable.
func Enumerate(ctx context.Context, source BlobSource, prefix string) (iter.Seq2[SourceEntry, error], error) {
	exists, err := source.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check source container: %w", err)
	}
	if !exists {
		return nil, ErrSourceUnavailable
	}

	normalized := NormalizePrefix(prefix)

	return func(yield func(SourceEntry, error) bool) {
		for key, err := range source.List(ctx, normalized) {
			if err != nil {
				yield(SourceEntry{}, fmt.Errorf("failed to list %q: %w", normalized, err))
				return
			}
			if !strings.HasPrefix(key, normalized) {
				continue
			}
			rest := key[len(normalized):]
			if rest == "" || strings.Contains(rest, "/") {
				continue
			}
			if !IsAllowedExtension(rest) {
				continue
			}
			if !yield(SourceEntry{Key: key}, nil) {
				return
			}
		}
	}, nil
}
