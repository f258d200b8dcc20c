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

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics
var (
	promRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docbridge_migration_runs_total",
			Help: "Total number of migration runs by final status",
		},
		[]string{"status"},
	)
	promFilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docbridge_migration_files_total",
			Help: "Total number of attempted file transfers by outcome",
		},
		[]string{"status"},
	)
	promFileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docbridge_migration_file_duration_milliseconds",
			Help:    "Per-file transfer duration in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
	promBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docbridge_migration_bytes_total",
			Help: "Total number of bytes uploaded to the document library",
		},
	)
)

func init() {
	prometheus.MustRegister(promRunsTotal)
	prometheus.MustRegister(promFilesTotal)
	prometheus.MustRegister(promFileDuration)
	prometheus.MustRegister(promBytesTotal)
}
