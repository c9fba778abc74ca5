// Package api provides the HTTP REST API and WebSocket server for RackDock.
//
// It exposes rack, device, and port inventory operations, the rack
// elevation view, authentication, and real-time change events to web
// and tooling clients.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rackdock/rackdock/internal/audit"
	"github.com/rackdock/rackdock/internal/auth"
	"github.com/rackdock/rackdock/internal/infrastructure/config"
	"github.com/rackdock/rackdock/internal/infrastructure/database"
	"github.com/rackdock/rackdock/internal/infrastructure/logging"
	"github.com/rackdock/rackdock/internal/infrastructure/mqtt"
	"github.com/rackdock/rackdock/internal/inventory"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	DB       *database.DB

	RackRepo   inventory.RackRepository
	DeviceRepo inventory.DeviceRepository
	PortRepo   inventory.PortRepository
	UserRepo   auth.UserRepository
	AuditRepo  audit.Repository

	// MQTT is optional; when nil, change events are WebSocket-only.
	MQTT *mqtt.Client

	Version string
}

// Server is the HTTP API server for RackDock.
//
// It manages the HTTP listener, routes, middleware, WebSocket hub, and
// the asynchronous audit writer. The server is created with New() and
// started with Start().
type Server struct {
	cfg    config.APIConfig
	wsCfg  config.WebSocketConfig
	secCfg config.SecurityConfig
	logger *logging.Logger
	db     *database.DB

	rackRepo   inventory.RackRepository
	deviceRepo inventory.DeviceRepository
	portRepo   inventory.PortRepository
	userRepo   auth.UserRepository
	auditRepo  audit.Repository
	auditCh    chan *audit.AuditLog

	mqtt    *mqtt.Client
	version string

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.RackRepo == nil || deps.DeviceRepo == nil || deps.PortRepo == nil {
		return nil, fmt.Errorf("inventory repositories are required")
	}
	if deps.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}

	s := &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		secCfg:     deps.Security,
		logger:     deps.Logger,
		db:         deps.DB,
		rackRepo:   deps.RackRepo,
		deviceRepo: deps.DeviceRepo,
		portRepo:   deps.PortRepo,
		userRepo:   deps.UserRepo,
		auditRepo:  deps.AuditRepo,
		mqtt:       deps.MQTT,
		version:    deps.Version,
		tickets:    newTicketStore(),
	}

	if s.auditRepo != nil {
		s.auditCh = make(chan *audit.AuditLog, auditChanSize)
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub and background
// housekeeping goroutines, and launches the HTTP listener in a
// background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Periodic ticket cleanup to prevent memory leaks
	go s.tickets.cleanLoop(srvCtx)

	if s.auditCh != nil {
		go s.drainAuditLog(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub, ticket cleanup, audit writer)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
