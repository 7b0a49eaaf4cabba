// Package server exposes bytecode execution over HTTP+JSON.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tliron/commonlog"

	"github.com/HarryLiGameTech/StateQ/store"
	"github.com/HarryLiGameTech/StateQ/vm"
)

var log = commonlog.GetLogger("qivm.server")

// Server wraps an execution driver in an HTTP service.
type Server struct {
	driver  *vm.Driver
	history *store.Store
	mux     *http.ServeMux
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	history *store.Store
}

// WithHistory records every execution into the given store.
func WithHistory(st *store.Store) ServerOption {
	return func(c *serverConfig) { c.history = st }
}

// NewServer creates a Server around driver.
func NewServer(driver *vm.Driver, opts ...ServerOption) *Server {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		driver:  driver,
		history: cfg.history,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/v1/execute", s.handleExecute)
	s.mux.HandleFunc("/v1/capacity", s.handleCapacity)
	s.mux.HandleFunc("/v1/gates/", s.handleGate)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Infof("listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("serving on %s: %w", addr, err)
	}
	return nil
}
