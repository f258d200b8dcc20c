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
	"fmt"

	"github.com/spf13/cobra"

	"docbridge/connectors/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect docbridge configuration",
	}
	cmd.AddCommand(configCheckCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration without contacting any store",
		Long: `Load configuration the same way the service does (environment, optional
DOCBRIDGE_CONFIG_FILE, optional Secrets Manager secret) and report missing values.

Examples:
  docbridgectl config check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(context.Background(), nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration OK")
			fmt.Fprintf(out, "  Source:       %s (%s)\n", cfg.Source.Type, cfg.Source.Container)
			fmt.Fprintf(out, "  Site:         %s\n", cfg.Sink.SiteURL)
			fmt.Fprintf(out, "  Library:      %s\n", cfg.Sink.LibraryName)
			fmt.Fprintf(out, "  Client ID:    %s\n", cfg.Sink.ClientID)
			fmt.Fprintf(out, "  Secret:       %s\n", mask(cfg.Sink.ClientSecret))
			fmt.Fprintf(out, "  Overwrite:    %t\n", cfg.Migration.Overwrite)
			fmt.Fprintf(out, "  Folder cache: %s\n", cfg.Migration.FolderCache)
			return nil
		},
	}
}

// mask keeps the first 4 characters of a secret
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
