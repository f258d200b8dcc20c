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
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
)

// MockSource is an in-memory BlobSource for tests
type MockSource struct {
	keys    []string
	objects map[string][]byte
	missing bool

	// Error injection
	existsErr error
	listErr   error
	openErrs  map[string]error

	// Call tracking
	existsCalls int
	listCalls   []string
	openCalls   []string

	mu sync.Mutex
}

// NewMockSource creates an existing, empty source
func NewMockSource() *MockSource {
	return &MockSource{
		objects:  make(map[string][]byte),
		openErrs: make(map[string]error),
	}
}

// Put adds an object. Listing returns keys in insertion order.
func (m *MockSource) Put(key string, data []byte) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.objects[key] = data
	return m
}

// SetMissing makes Exists report false
func (m *MockSource) SetMissing() *MockSource {
	m.missing = true
	return m
}

// SetExistsError makes Exists fail with err
func (m *MockSource) SetExistsError(err error) *MockSource {
	m.existsErr = err
	return m
}

// SetListError makes List yield err after the matching keys
func (m *MockSource) SetListError(err error) *MockSource {
	m.listErr = err
	return m
}

// SetOpenError makes OpenRead fail for key
func (m *MockSource) SetOpenError(key string, err error) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[key] = err
	return m
}

// Exists implements BlobSource
func (m *MockSource) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return !m.missing, nil
}

// List implements BlobSource
func (m *MockSource) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, prefix)
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	listErr := m.listErr
	m.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, key := range keys {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			if !yield(key, nil) {
				return
			}
		}
		if listErr != nil {
			yield("", listErr)
		}
	}
}

// OpenRead implements BlobSource
func (m *MockSource) OpenRead(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openCalls = append(m.openCalls, key)
	if err, ok := m.openErrs[key]; ok {
		return nil, 0, err
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// ExistsCalls returns how many times Exists was called
func (m *MockSource) ExistsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsCalls
}

// ListCalls returns the prefixes passed to List
func (m *MockSource) ListCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.listCalls...)
}

// OpenCalls returns the keys passed to OpenRead
func (m *MockSource) OpenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}

// CreateCall records a CreateFolder call
type CreateCall struct {
	Parent FolderHandle
	Name   string
}

// UploadCall records an Upload call
type UploadCall struct {
	Folder FolderHandle
	Leaf   string
	Size   int64
	Policy ConflictPolicy
}

// MockLibrary is an in-memory DocumentLibrary for tests
type MockLibrary struct {
	identity string
	children map[FolderHandle][]RemoteItem
	files    map[FolderHandle]map[string][]byte
	nextID   int

	// Error injection
	listErr   error
	createErr error
	existsErr error
	onUpload  func(folder FolderHandle, leaf string) error

	// Call tracking
	listCalls   []FolderHandle
	createCalls []CreateCall
	uploadCalls []UploadCall
	existsCalls int

	mu sync.Mutex
}

// NewMockLibrary creates an empty library
func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		identity: "mock-site|Documents",
		children: make(map[FolderHandle][]RemoteItem),
		files:    make(map[FolderHandle]map[string][]byte),
	}
}

// AddFolder seeds a folder under parent without recording a call
func (m *MockLibrary) AddFolder(parent FolderHandle, name string) FolderHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addFolder(parent, name)
}

// AddFile seeds a file under folder without recording a call
func (m *MockLibrary) AddFile(folder FolderHandle, leaf string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeFile(folder, leaf, data)
}

// SetListError makes ListChildren fail
func (m *MockLibrary) SetListError(err error) { m.listErr = err }

// SetCreateError makes CreateFolder fail
func (m *MockLibrary) SetCreateError(err error) { m.createErr = err }

// SetExistsError makes Exists fail
func (m *MockLibrary) SetExistsError(err error) { m.existsErr = err }

// OnUpload installs a hook run before every upload; a non-nil result fails the upload
func (m *MockLibrary) OnUpload(fn func(folder FolderHandle, leaf string) error) { m.onUpload = fn }

// ListChildren implements RemoteTree
func (m *MockLibrary) ListChildren(ctx context.Context, parent FolderHandle) ([]RemoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, parent)
	if m.listErr != nil {
		return nil, m.listErr
	}
	items := make([]RemoteItem, len(m.children[parent]))
	copy(items, m.children[parent])
	return items, nil
}

// CreateFolder implements RemoteTree
func (m *MockLibrary) CreateFolder(ctx context.Context, parent FolderHandle, name string) (FolderHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls = append(m.createCalls, CreateCall{Parent: parent, Name: name})
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.addFolder(parent, name), nil
}

// Upload implements DocumentLibrary
func (m *MockLibrary) Upload(ctx context.Context, folder FolderHandle, leaf string, r io.Reader, size int64, policy ConflictPolicy) (string, error) {
	m.mu.Lock()
	m.uploadCalls = append(m.uploadCalls, UploadCall{Folder: folder, Leaf: leaf, Size: size, Policy: policy})
	hook := m.onUpload
	m.mu.Unlock()

	if hook != nil {
		if err := hook(folder, leaf); err != nil {
			return "", err
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[folder][leaf]; exists && policy == ConflictFail {
		return "", &RemoteStoreError{StatusCode: 409, Code: "nameAlreadyExists", Message: "The specified item name already exists"}
	}
	m.storeFile(folder, leaf, data)
	return fmt.Sprintf("%s/%s", folder, leaf), nil
}

// Exists implements DocumentLibrary
func (m *MockLibrary) Exists(ctx context.Context, folder FolderHandle, leaf string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.files[folder][leaf]
	return ok, nil
}

// Identity implements DocumentLibrary
func (m *MockLibrary) Identity() string {
	return m.identity
}

// File returns the stored content of leaf under folder
func (m *MockLibrary) File(folder FolderHandle, leaf string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[folder][leaf]
	return data, ok
}

// ListCalls returns the parents passed to ListChildren
func (m *MockLibrary) ListCalls() []FolderHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FolderHandle(nil), m.listCalls...)
}

// CreateCalls returns the recorded CreateFolder calls
func (m *MockLibrary) CreateCalls() []CreateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CreateCall(nil), m.createCalls...)
}

// UploadCalls returns the recorded Upload calls
func (m *MockLibrary) UploadCalls() []UploadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UploadCall(nil), m.uploadCalls...)
}

// ExistsCalls returns how many times Exists was called
func (m *MockLibrary) ExistsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsCalls
}

// ResetCalls clears call tracking
func (m *MockLibrary) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = nil
	m.createCalls = nil
	m.uploadCalls = nil
	m.existsCalls = 0
}

func (m *MockLibrary) addFolder(parent FolderHandle, name string) FolderHandle {
	m.nextID++
	id := FolderHandle(fmt.Sprintf("folder-%d", m.nextID))
	m.children[parent] = append(m.children[parent], RemoteItem{ID: id, Name: name, IsFolder: true})
	return id
}

func (m *MockLibrary) storeFile(folder FolderHandle, leaf string, data []byte) {
	if m.files[folder] == nil {
		m.files[folder] = make(map[string][]byte)
	}
	if _, exists := m.files[folder][leaf]; !exists {
		m.nextID++
		m.children[folder] = append(m.children[folder], RemoteItem{
			ID:   FolderHandle(fmt.Sprintf("file-%d", m.nextID)),
			Name: leaf,
		})
	}
	m.files[folder][leaf] = data
}

// StaticSession returns a SessionFactory that always yields lib and counts its invocations
func StaticSession(lib DocumentLibrary, calls *int) SessionFactory {
	return func(ctx context.Context) (DocumentLibrary, error) {
		if calls != nil {
			*calls++
		}
		return lib, nil
	}
}
