package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthHandler handles GET /health: a lightweight warehouse connectivity
// probe (§4.1).
func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := s.gw.Health(ctx)
	resp := HealthResponse{
		Database:  status.Healthy,
		OpenConns: status.OpenConnections,
		Status:    "healthy",
	}
	httpStatus := http.StatusOK
	if !status.Healthy {
		resp.Status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, resp)
}
