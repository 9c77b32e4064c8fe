// Copyright 2026 Blink Labs Software
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

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const DefaultListenAddress = ":8080"

type Config struct {
	ListenAddress string
	// SubmitEnabled accepts transactions on POST /api/v0/tx
	SubmitEnabled bool
}

// Server is the REST query and submission API
type Server struct {
	config     Config
	logger     *slog.Logger
	node       Node
	httpServer *http.Server
	listenAddr net.Addr
	mu         sync.Mutex
}

func New(
	cfg Config,
	node Node,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	return &Server{
		config: cfg,
		logger: logger,
		node:   node,
	}
}

// Handler returns the routed API handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v0/token", s.handleToken)
	mux.HandleFunc("GET /api/v0/token/balances/{address}", s.handleBalance)
	mux.HandleFunc("GET /api/v0/delegates", s.handleDelegates)
	mux.HandleFunc("GET /api/v0/delegates/{address}", s.handleDelegate)
	mux.HandleFunc("GET /api/v0/delegates/{address}/voting-power", s.handleVotingPower)
	mux.HandleFunc("GET /api/v0/delegates/{address}/delegations", s.handleDelegationsTo)
	mux.HandleFunc("GET /api/v0/delegations/{owner}/{delegate}", s.handleDelegation)
	mux.HandleFunc("GET /api/v0/proposals", s.handleProposals)
	mux.HandleFunc("GET /api/v0/proposals/{id}", s.handleProposal)
	mux.HandleFunc("GET /api/v0/proposals/{id}/votes", s.handleProposalVotes)
	mux.HandleFunc("GET /api/v0/timelock", s.handleTimelockEntries)
	mux.HandleFunc("GET /api/v0/timelock/{hash}", s.handleTimelockEntry)
	mux.HandleFunc("GET /api/v0/council", s.handleCouncil)
	mux.HandleFunc("GET /api/v0/council/actions", s.handleCouncilActions)
	mux.HandleFunc("GET /api/v0/council/actions/{id}", s.handleCouncilAction)
	mux.HandleFunc("GET /api/v0/events", s.handleEvents)
	mux.HandleFunc("POST /api/v0/tx", s.handleSubmitTx)
	return mux
}

// Start starts the HTTP server in a background goroutine.
func (s *Server) Start(
	ctx context.Context,
) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	s.httpServer = server
	s.mu.Unlock()

	if err := s.startServer(server); err != nil {
		s.mu.Lock()
		s.httpServer = nil
		s.mu.Unlock()
		return err
	}

	s.logger.Info(
		"API listener started",
		"address", s.Addr(),
		"submit_enabled", s.config.SubmitEnabled,
	)

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		srv := s.httpServer
		s.httpServer = nil
		s.mu.Unlock()

		if srv != nil {
			s.logger.Debug("context cancelled, shutting down API server")
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(
	ctx context.Context,
) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv != nil {
		s.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown API server: %w", err)
		}
	}
	return nil
}

// Addr returns the bound listen address once started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr == nil {
		return s.config.ListenAddress
	}
	return s.listenAddr.String()
}

// startServer binds the listening socket first so port conflicts are
// reported by Start, then serves in a background goroutine.
func (s *Server) startServer(
	server *http.Server,
) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	s.mu.Lock()
	s.listenAddr = ln.Addr()
	s.mu.Unlock()
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
