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

/*
Package logger provides structured JSON logging for docbridge components.

# Overview

The logger writes one JSON object per line through the standard library log
package, so the output can be shipped to CloudWatch, Azure Monitor or any
other log aggregation system without further parsing.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (migrator, docbridgectl, ...)
  - Instance ID and container name
  - Run ID (one per migration run)
  - Request ID (for trigger correlation)
  - Custom fields

# Usage

	log := logger.New("migrator")

	log.Info(runID, requestID, "Migration started", map[string]interface{}{
	    "source_path": "CaseDocs/0012/",
	})

	log.ErrorWithCode(runID, requestID, "Trigger failed", 500, err, nil)

# Environment Variables

  - INSTANCE_ID: Deployment instance identifier
  - HOSTNAME: Container hostname (auto-detected)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
