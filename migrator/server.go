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
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"docbridge/connectors/config"
)

// Version is reported by /health
const Version = "1.0.0"

// Server is the HTTP trigger
type Server struct {
	runner    *Runner
	router    *mux.Router
	jwtSecret []byte
}

// NewServer registers all routes. An empty jwtSecret leaves the API open.
func NewServer(runner *Runner, jwtSecret string) *Server {
	s := &Server{
		runner: runner,
		router: mux.NewRouter(),
	}
	if jwtSecret != "" {
		s.jwtSecret = []byte(jwtSecret)
	}

	s.router.Use(requestIDMiddleware, metricsMiddleware)
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/metrics", s.metricsHandler).Methods("GET")
	s.router.Handle("/prometheus", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	if s.jwtSecret != nil {
		api.Use(jwtMiddleware(s.jwtSecret))
	}
	api.HandleFunc("/migrate", s.migrateHandler).Methods("POST")

	return s
}

// Handler returns the router wrapped with CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// newHTTPServer builds the listener for cfg. Port and trigger secret come from
// the environment or the YAML overlay.
func newHTTPServer(runner *Runner, cfg *config.ServerConfig) *http.Server {
	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	if cfg.TriggerJWTSecret == "" {
		log.Println("Warning: TRIGGER_JWT_SECRET is not set, /api routes are unauthenticated")
	}

	server := NewServer(runner, cfg.TriggerJWTSecret)
	return &http.Server{
		Addr:              ":" + port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run is the entry point of the docbridge service. It blocks until SIGINT or
// SIGTERM and lets in-flight migrations finish before returning.
func Run() {
	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	runner := NewRunner(DefaultDependencies(), nil, nil)
	srv := newHTTPServer(runner, serverCfg)

	go func() {
		log.Printf("docbridge starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down, waiting for in-flight migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
