// Package api implements the engine's HTTP surface: the three inbound
// webhooks of §6.2 and the admin provisioning endpoints of §4.9.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/calendar"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/payment"
	"github.com/closermetrix/engine/pkg/tenantlifecycle"
	"github.com/closermetrix/engine/pkg/transcript"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	cfg        *config.ServerConfig

	gw                   warehouse.AdminGateway
	calendarOrchestrator *calendar.Orchestrator
	transcriptOrchestrator *transcript.Orchestrator
	paymentReconciler    *payment.Reconciler
	tenants              *tenantlifecycle.Manager
}

// NewServer builds a Server and registers all routes.
func NewServer(
	cfg *config.ServerConfig,
	auth *config.AuthConfig,
	gw warehouse.AdminGateway,
	calendarOrchestrator *calendar.Orchestrator,
	transcriptOrchestrator *transcript.Orchestrator,
	paymentReconciler *payment.Reconciler,
	tenants *tenantlifecycle.Manager,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery(), securityHeaders())

	s := &Server{
		engine:                 e,
		cfg:                    cfg,
		gw:                     gw,
		calendarOrchestrator:   calendarOrchestrator,
		transcriptOrchestrator: transcriptOrchestrator,
		paymentReconciler:      paymentReconciler,
		tenants:                tenants,
	}

	s.setupRoutes(auth)
	return s
}

func (s *Server) setupRoutes(auth *config.AuthConfig) {
	s.engine.GET("/health", s.healthHandler)

	webhooks := s.engine.Group("/webhooks")
	webhooks.POST("/calendar", s.calendarWebhookHandler)
	webhooks.POST("/transcript/:provider", s.transcriptWebhookHandler)
	webhooks.POST("/payment/:tenant_id", tenantWebhookAuth(s.gw, "tenant_id"), s.paymentWebhookHandler)

	admin := s.engine.Group("/admin", adminAuth(auth))
	admin.POST("/tenants", s.createTenantHandler)
	admin.POST("/tenants/:tenant_id/closers", s.createCloserHandler)
	admin.POST("/tenants/:tenant_id/closers/:closer_id/deactivate", s.deactivateCloserHandler)
}

// Start starts the HTTP server on the configured address (blocking).
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by tests that need a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.engine}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
