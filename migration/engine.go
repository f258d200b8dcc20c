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
	"fmt"
	"time"

	"docbridge/shared/logger"
)

// Options tune a migration run
type Options struct {
	// Overwrite replaces existing items in the library. When false every file is
	// checked for existence first and uploaded with ConflictFail.
	Overwrite bool

	// FolderCache, when set, is shared by the run's Resolver
	FolderCache FolderCache
}

// DefaultOptions returns the options used by the HTTP trigger
func DefaultOptions() Options {
	return Options{Overwrite: true}
}

// Engine drives a migration run from a BlobSource into a DocumentLibrary
type Engine struct {
	source   BlobSource
	sessions SessionFactory
	opts     Options
	log      *logger.Logger
}

// NewEngine creates an Engine. log may be nil.
func NewEngine(source BlobSource, sessions SessionFactory, opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.New("migration")
	}
	return &Engine{
		source:   source,
		sessions: sessions,
		opts:     opts,
		log:      log,
	}
}

// Migrate copies every document directly under sourcePrefix into the library.
// It always returns a report; batch-fatal failures are reported with
// StatusError and the cause in TransferReport.Err.
func (e *Engine) Migrate(ctx context.Context, sourcePrefix string) *TransferReport {
	agg := NewAggregator(sourcePrefix)
	runID := agg.RunID()
	requestID := RequestIDFromContext(ctx)

	e.log.Info(runID, requestID, "Migration started", map[string]interface{}{
		"source_path": sourcePrefix,
		"overwrite":   e.opts.Overwrite,
	})

	report := e.run(ctx, agg, sourcePrefix)

	promRunsTotal.WithLabelValues(string(report.Status)).Inc()
	fields := map[string]interface{}{
		"status":      report.Status,
		"total_found": report.TotalFound,
		"processed":   report.Processed,
		"failed":      report.Failed,
	}
	if report.Err != nil {
		e.log.Error(runID, requestID, report.Message, fields)
	} else {
		e.log.InfoWithDuration(runID, requestID, "Migration finished", float64(report.Duration.Milliseconds()), fields)
	}
	return report
}

func (e *Engine) run(ctx context.Context, agg *Aggregator, sourcePrefix string) *TransferReport {
	entries, err := e.collect(ctx, sourcePrefix)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return agg.Abort("Source container not found", err)
		}
		return agg.Abort("Failed to list source folder: "+err.Error(), err)
	}

	agg.SetTotal(len(entries))
	if len(entries) == 0 {
		return agg.Build()
	}

	lib, err := e.sessions(ctx)
	if err != nil {
		return agg.Abort("Failed to connect to document library: "+DescribeError(err), err)
	}

	resolver := NewResolver(lib)
	if e.opts.FolderCache != nil {
		resolver.WithCache(e.opts.FolderCache, lib.Identity())
	}

	if err := e.transferAll(ctx, agg, lib, resolver, entries); err != nil {
		return agg.Abort("Migration aborted: "+err.Error(), err)
	}
	return agg.Build()
}

func (e *Engine) collect(ctx context.Context, sourcePrefix string) ([]SourceEntry, error) {
	seq, err := Enumerate(ctx, e.source, sourcePrefix)
	if err != nil {
		return nil, err
	}
	var entries []SourceEntry
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Engine) transferAll(ctx context.Context, agg *Aggregator, lib DocumentLibrary, resolver *Resolver, entries []SourceEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during transfer: %v", r)
		}
	}()

	runID := agg.RunID()
	requestID := RequestIDFromContext(ctx)

	for _, entry := range entries {
		start := time.Now()
		size, ferr := e.transferFile(ctx, lib, resolver, entry)
		promFileDuration.Observe(float64(time.Since(start).Milliseconds()))

		if ferr != nil {
			agg.RecordFailure(entry.Key, ferr)
			promFilesTotal.WithLabelValues(string(OutcomeFailed)).Inc()
			e.log.Warn(runID, requestID, "File transfer failed", map[string]interface{}{
				"source_key": entry.Key,
				"error":      DescribeError(ferr),
			})
			continue
		}

		agg.RecordSuccess(entry.Key)
		promFilesTotal.WithLabelValues(string(OutcomeSuccess)).Inc()
		if size > 0 {
			promBytesTotal.Add(float64(size))
		}
		e.log.Debug(runID, requestID, "File transferred", map[string]interface{}{
			"source_key": entry.Key,
			"bytes":      size,
		})
	}
	return nil
}

func (e *Engine) transferFile(ctx context.Context, lib DocumentLibrary, resolver *Resolver, entry SourceEntry) (int64, error) {
	parsed := ParsePath(entry.Key)

	folder := RootFolder
	if len(parsed.Directory) > 0 {
		var err error
		folder, err = resolver.EnsurePath(ctx, parsed.DirectoryPath())
		if err != nil {
			return 0, err
		}
	}

	policy := ConflictReplace
	if !e.opts.Overwrite {
		exists, err := lib.Exists(ctx, folder, parsed.LeafName)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, &RemoteStoreError{
				StatusCode: 409,
				Code:       "nameAlreadyExists",
				Message:    fmt.Sprintf("%s already exists in the destination folder", parsed.LeafName),
			}
		}
		policy = ConflictFail
	}

	body, size, err := e.source.OpenRead(ctx, entry.Key)
	if err != nil {
		return 0, fmt.Errorf("failed to open %q: %w", entry.Key, err)
	}
	defer body.Close()

	if _, err := lib.Upload(ctx, folder, parsed.LeafName, body, size, policy); err != nil {
		return 0, err
	}
	return size, nil
}
