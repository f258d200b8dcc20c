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

import "strings"

// ParsedPath is a source key split into its directory segments and leaf name
type ParsedPath struct {
	Directory []string
	LeafName  string
}

// DirectoryPath joins the directory segments with "/"
func (p ParsedPath) DirectoryPath() string {
	return strings.Join(p.Directory, "/")
}

// ParsePath splits key on its last "/". A key without a separator has an
// empty directory and is its own leaf name.
func ParsePath(key string) ParsedPath {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return ParsedPath{LeafName: key}
	}
	return ParsedPath{
		Directory: SplitPath(key[:idx]),
		LeafName:  key[idx+1:],
	}
}

// SplitPath splits a slash-delimited path into its non-empty segments
func SplitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}
