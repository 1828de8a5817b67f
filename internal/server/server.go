package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"sharegate/internal/constants"
	"sharegate/internal/logger"
)

// Server wraps the HTTP server with graceful shutdown
type Server struct {
	httpServer *http.Server
	app        *App
	logger     *logger.Logger
}

// NewServer creates a new HTTP server
func NewServer(app *App, addr string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		app:    app,
		logger: app.Logger,
	}

	// Register routes
	s.registerRoutes(mux)

	// Build middleware chain: RequestID → SecurityHeaders → handler
	handler := Chain(mux, RequestID, SecurityHeaders)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: constants.HTTPReadTimeout,
		IdleTimeout: constants.HTTPIdleTimeout,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// File registry routes
	mux.HandleFunc("/api/filelist", s.handleFileList)
	mux.HandleFunc("/api/files", s.handleRegisterFile)
	mux.HandleFunc("/api/deletefile", s.handleDeleteFile)

	// Request ledger routes
	mux.HandleFunc("/api/allrequests", s.handleAllRequests)
	mux.HandleFunc("/api/accessrequest", s.handleAccessRequest)
	mux.HandleFunc("/api/accesscontrol", s.handleAccessControl)
	mux.HandleFunc("/api/revokeaccess", s.handleRevokeAccess)

	// Client identity routes
	mux.HandleFunc("/api/clients", s.handleClientRegister)
	mux.HandleFunc("/api/clients/rekey", s.handleClientRekey)

	// Audit log route
	mux.HandleFunc("/api/audit", s.handleAuditQuery)

	// Service info route
	mux.HandleFunc("/api/info", s.handleInfo)
}

// Start runs the server and blocks until shutdown signal
func (s *Server) Start() error {
	// Channel for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, shutdownSignals...)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-stop:
		s.logger.Info("Received signal %v, shutting down...", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.ShutdownTimeoutSecs)*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Shutdown error: %v", err)
	}

	// Stop audit logger cleanup goroutine
	if s.app.AuditLogger != nil {
		s.app.AuditLogger.Stop()
	}

	// Close the ledger database
	if s.app.LedgerDB != nil {
		s.app.LedgerDB.Close()
	}

	s.logger.Info("Server stopped")
	return nil
}

// Handler returns the HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
