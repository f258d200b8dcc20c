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

package sharepoint

import (
	"context"
	"net/url"

	"docbridge/connectors/sdk"
	"docbridge/migration"
)

const childrenPageSize = 200

type driveItem struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Folder *struct{} `json:"folder,omitempty"`
}

// ListChildren returns every child of parent, following @odata.nextLink
func (l *Library) ListChildren(ctx context.Context, parent migration.FolderHandle) ([]migration.RemoteItem, error) {
	timer := sdk.NewTimer()
	items, err := l.listChildren(ctx, parent)
	timer.RecordTo(l.GetMetrics().RecordRead, err)
	return items, err
}

func (l *Library) listChildren(ctx context.Context, parent migration.FolderHandle) ([]migration.RemoteItem, error) {
	q := url.Values{}
	q.Set("$select", "id,name,folder")
	q.Set("$top", "200")
	next := l.itemURL(parent) + "/children?" + q.Encode()

	items := make([]migration.RemoteItem, 0, childrenPageSize)
	for next != "" {
		var page struct {
			Value    []driveItem `json:"value"`
			NextLink string      `json:"@odata.nextLink"`
		}
		if err := l.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, it := range page.Value {
			items = append(items, migration.RemoteItem{
				ID:       migration.FolderHandle(it.ID),
				Name:     it.Name,
				IsFolder: it.Folder != nil,
			})
		}
		next = page.NextLink
	}
	return items, nil
}

// CreateFolder creates name under parent and returns its handle.
// An existing item with the same name is a conflict error.
func (l *Library) CreateFolder(ctx context.Context, parent migration.FolderHandle, name string) (migration.FolderHandle, error) {
	timer := sdk.NewTimer()

	body := map[string]interface{}{
		"name":                              name,
		"folder":                            map[string]interface{}{},
		"@microsoft.graph.conflictBehavior": "fail",
	}
	var created driveItem
	err := l.postJSON(ctx, l.itemURL(parent)+"/children", body, &created)
	timer.RecordTo(l.GetMetrics().RecordWrite, err)
	if err != nil {
		return "", err
	}

	l.Log("Created folder %q under %s", name, parent)
	return migration.FolderHandle(created.ID), nil
}

// Exists reports whether an item named leafName exists under folder
func (l *Library) Exists(ctx context.Context, folder migration.FolderHandle, leafName string) (bool, error) {
	timer := sdk.NewTimer()
	err := l.getJSON(ctx, l.childURL(folder, leafName)+"?$select=id", nil)
	if migration.IsNotFound(err) {
		timer.RecordTo(l.GetMetrics().RecordRead, nil)
		return false, nil
	}
	timer.RecordTo(l.GetMetrics().RecordRead, err)
	if err != nil {
		return false, err
	}
	return true, nil
}
