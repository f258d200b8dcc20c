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
	"fmt"
	"io"

	"docbridge/connectors/config"
	"docbridge/connectors/sdk"
	"docbridge/migration"
	"docbridge/shared/logger"
)

// Dependencies builds the per-run collaborators. Tests replace individual fields.
type Dependencies struct {
	LoadConfig     func(ctx context.Context) (*config.Config, error)
	NewSource      func(ctx context.Context, cfg *config.Config) (migration.BlobSource, error)
	NewSession     func(cfg *config.Config) migration.SessionFactory
	NewFolderCache func(ctx context.Context, cfg *config.Config) (migration.FolderCache, error)
}

// PreflightError is a failure detected before the engine started. No file was touched.
type PreflightError struct {
	Stage string
	Err   error
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}

// Runner performs complete migration runs: configuration, connectors, engine
type Runner struct {
	deps    Dependencies
	metrics *sdk.AggregateMetrics
	log     *logger.Logger
}

// NewRunner creates a Runner. Nil fields of deps fall back to DefaultDependencies.
func NewRunner(deps Dependencies, metrics *sdk.AggregateMetrics, log *logger.Logger) *Runner {
	defaults := DefaultDependencies()
	if deps.LoadConfig == nil {
		deps.LoadConfig = defaults.LoadConfig
	}
	if deps.NewSource == nil {
		deps.NewSource = defaults.NewSource
	}
	if deps.NewSession == nil {
		deps.NewSession = defaults.NewSession
	}
	if deps.NewFolderCache == nil {
		deps.NewFolderCache = defaults.NewFolderCache
	}
	if metrics == nil {
		metrics = sdk.NewAggregateMetrics()
	}
	if log == nil {
		log = logger.New("migrator")
	}
	return &Runner{deps: deps, metrics: metrics, log: log}
}

// Metrics returns the connector metrics collected across runs
func (r *Runner) Metrics() *sdk.AggregateMetrics {
	return r.metrics
}

// Run migrates every document directly under prefix. A non-nil error is
// always a *PreflightError; everything after pre-flight is in the report.
func (r *Runner) Run(ctx context.Context, prefix string) (*migration.TransferReport, error) {
	requestID := migration.RequestIDFromContext(ctx)

	cfg, err := r.deps.LoadConfig(ctx)
	if err != nil {
		r.log.Error("", requestID, "Configuration rejected", map[string]interface{}{"error": err.Error()})
		return nil, &PreflightError{Stage: "Configuration error", Err: err}
	}

	source, err := r.deps.NewSource(ctx, cfg)
	if err != nil {
		r.log.Error("", requestID, "Source initialization failed", map[string]interface{}{
			"source_type": cfg.Source.Type,
			"error":       err.Error(),
		})
		return nil, &PreflightError{Stage: "Failed to initialize source", Err: err}
	}
	r.track("source", source)
	defer r.release(ctx, source)

	cache, err := r.deps.NewFolderCache(ctx, cfg)
	if err != nil {
		// the cache is an optimization; run without it
		r.log.Warn("", requestID, "Folder cache unavailable", map[string]interface{}{
			"mode":  cfg.Migration.FolderCache,
			"error": err.Error(),
		})
		cache = nil
	}
	if closer, ok := cache.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	sessions := r.deps.NewSession(cfg)
	var lib migration.DocumentLibrary
	tracked := func(ctx context.Context) (migration.DocumentLibrary, error) {
		l, err := sessions(ctx)
		if err != nil {
			return nil, err
		}
		lib = l
		r.track("sharepoint", l)
		return l, nil
	}
	defer func() {
		if lib != nil {
			r.release(ctx, lib)
		}
	}()

	opts := migration.Options{Overwrite: cfg.Migration.Overwrite}
	if cache != nil {
		opts.FolderCache = cache
	}

	engine := migration.NewEngine(source, tracked, opts, r.log)
	return engine.Migrate(ctx, prefix), nil
}

type metricsProvider interface {
	GetMetrics() *sdk.ConnectorMetrics
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

func (r *Runner) track(name string, v interface{}) {
	if m, ok := v.(metricsProvider); ok {
		r.metrics.Add(name, m.GetMetrics())
	}
}

func (r *Runner) release(ctx context.Context, v interface{}) {
	if d, ok := v.(disconnecter); ok {
		_ = d.Disconnect(ctx)
	}
}
