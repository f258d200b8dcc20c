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

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docbridge/migration"
	"docbridge/migrator"
)

// newRunner is replaced in tests
var newRunner = func() *migrator.Runner {
	return migrator.NewRunner(migrator.DefaultDependencies(), nil, nil)
}

// errRunFailed signals a completed run whose status is Error
type errRunFailed struct {
	message string
}

func (e *errRunFailed) Error() string {
	return "migration failed: " + e.message
}

func migrateCmd() *cobra.Command {
	var prefix string
	var requestID string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate one source folder",
		Long: `Migrate every pdf, doc, docx, xls and xlsx file directly under a source folder
into the configured SharePoint library, recreating the folder path.

The JSON report is printed to stdout. The exit code is non-zero when the run
status is Error; PartialSuccess exits zero.

Examples:
  docbridgectl migrate --prefix Cases/0012
  docbridgectl migrate --prefix "" # container root`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if requestID == "" {
				requestID = uuid.NewString()
			}
			ctx := migration.WithRequestID(context.Background(), requestID)

			report, err := newRunner().Run(ctx, prefix)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(migrator.NewMigrateResponse(report)); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			if report.Status == migration.StatusError {
				return &errRunFailed{message: report.Message}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Source folder to migrate (empty for the container root)")
	cmd.Flags().StringVar(&requestID, "request-id", "", "Request id to attach to log lines (default: random)")

	return cmd
}
