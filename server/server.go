// Copyright 2025 Poiesic Systems
//
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


// Package server exposes the research engine over HTTP: launching
// research runs, inspecting task status, browsing collected profiles,
// and asking questions against the vector index.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/prospect"
	"github.com/poiesic/prospect/chat"
	"github.com/poiesic/prospect/research"
)

// Config holds dependencies and settings for creating a Server.
type Config struct {
	// Required dependencies.
	DB           *prospect.Database
	Orchestrator *research.Orchestrator
	Chat         *chat.Engine
	Logger       *slog.Logger

	// HTTP server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the prospect HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// New creates an HTTP server with all routes configured.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "http-server")
	}

	h := newHandlers(cfg.DB, cfg.Orchestrator, cfg.Chat, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("POST /api/research", h.handleLaunchResearch)
	mux.HandleFunc("GET /api/tasks", h.handleListTasks)
	mux.HandleFunc("GET /api/tasks/{id}", h.handleGetTask)
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("GET /api/companies", h.handleListCompanies)
	mux.HandleFunc("GET /api/companies/{name}/contacts", h.handleCompanyContacts)
	mux.HandleFunc("GET /api/summary", h.handleSummary)

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 60 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		handler: mux,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
