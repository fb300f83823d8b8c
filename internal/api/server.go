package api

import (
	"context"
	"net"
	"net/http"
	"sync"

	"afdian-bridge/internal/afdian"
	"afdian-bridge/internal/config"
	"afdian-bridge/internal/database"
	"afdian-bridge/internal/models"
	"afdian-bridge/internal/services"
	"afdian-bridge/pkg/logging"

	"github.com/gin-gonic/gin"
)

// OrderCallback is invoked after an inbound order has been persisted. Errors
// are logged; the webhook acknowledgment reflects storage success only.
type OrderCallback func(ctx context.Context, order *models.Order) error

// Server is the webhook server: it receives order notifications from the
// platform and exposes the operator/admin surface.
type Server struct {
	cfg        *config.Config
	store      *database.OrderStore
	client     *afdian.Client
	registry   *services.CorrelationRegistry
	dispatcher *services.Dispatcher

	callback OrderCallback
	engine   *gin.Engine

	mutex   sync.Mutex
	httpSrv *http.Server
}

// NewServer creates the server and wires its routes. client, registry and
// dispatcher may be nil when the corresponding admin routes are not needed.
func NewServer(cfg *config.Config, store *database.OrderStore, client *afdian.Client,
	registry *services.CorrelationRegistry, dispatcher *services.Dispatcher) *Server {

	s := &Server{
		cfg:        cfg,
		store:      store,
		client:     client,
		registry:   registry,
		dispatcher: dispatcher,
		engine:     gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// RegisterOrderCallback sets the single callback slot, replacing any
// previously registered callback.
func (s *Server) RegisterOrderCallback(cb OrderCallback) {
	s.callback = cb
}

// Start binds the listening socket and serves in the background. Starting an
// already running server is a logged no-op.
func (s *Server) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.httpSrv != nil {
		logging.Warnf("Webhook server already started, ignoring")
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.httpSrv = &http.Server{Handler: s.engine}
	go func(srv *http.Server) {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Errorf("Webhook server error: %v", err)
		}
	}(s.httpSrv)

	logging.Infof("Webhook server listening on %s", addr)
	return nil
}

// Stop releases the listening socket. Stopping a server that is not running
// is a logged no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.httpSrv == nil {
		logging.Warnf("Webhook server not running, ignoring stop")
		return nil
	}

	err := s.httpSrv.Shutdown(ctx)
	s.httpSrv = nil
	logging.Infof("Webhook server stopped")
	return err
}
