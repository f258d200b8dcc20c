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

package migrator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"docbridge/migration"
)

// MigrateRequest is the body of POST /api/migrate
type MigrateRequest struct {
	BlobFolderPath string `json:"blobFolderPath"`
}

// FailedFile describes one file that could not be migrated
type FailedFile struct {
	FileName     string `json:"fileName"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

// MigrateResponse is the JSON result of a migrate call
type MigrateResponse struct {
	Status         string       `json:"status"`
	Message        string       `json:"message"`
	FolderPath     string       `json:"folderPath"`
	FilesCount     int          `json:"filesCount"`
	FilesProcessed int          `json:"filesProcessed"`
	FilesFailed    int          `json:"filesFailed"`
	FailedFiles    []FailedFile `json:"failedFiles"`
	RunID          string       `json:"runId,omitempty"`
}

// NewMigrateResponse converts a report into the wire format
func NewMigrateResponse(report *migration.TransferReport) *MigrateResponse {
	resp := &MigrateResponse{
		Status:         string(report.Status),
		Message:        report.Message,
		FolderPath:     report.SourcePath,
		FilesCount:     report.TotalFound,
		FilesProcessed: report.Processed,
		FilesFailed:    report.Failed,
		FailedFiles:    make([]FailedFile, 0, len(report.Failures)),
		RunID:          report.RunID,
	}
	for _, f := range report.Failures {
		resp.FailedFiles = append(resp.FailedFiles, FailedFile{
			FileName:     f.SourceKey,
			Status:       string(f.Status),
			ErrorMessage: f.ErrorMessage,
		})
	}
	return resp
}

// statusCodeFor maps a finished report to the HTTP status of the trigger
func statusCodeFor(report *migration.TransferReport) int {
	switch {
	case report.Err == nil:
		return http.StatusOK
	case errors.Is(report.Err, migration.ErrSourceUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) migrateHandler(w http.ResponseWriter, r *http.Request) {
	var req MigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	prefix := strings.TrimSpace(req.BlobFolderPath)
	if prefix == "" {
		writeError(w, http.StatusBadRequest, "Please provide blobFolderPath in the request body")
		return
	}

	// a started run completes even if the caller goes away
	ctx := context.WithoutCancel(r.Context())

	report, err := s.runner.Run(ctx, prefix)
	if err != nil {
		var pre *PreflightError
		if errors.As(err, &pre) {
			writeJSON(w, http.StatusBadRequest, &MigrateResponse{
				Status:      string(migration.StatusError),
				Message:     pre.Error(),
				FolderPath:  prefix,
				FailedFiles: []FailedFile{},
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, statusCodeFor(report), NewMigrateResponse(report))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "docbridge",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics := s.runner.Metrics()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connectors": metrics.GetAll(),
		"total":      metrics.GetTotal(),
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  string(migration.StatusError),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
