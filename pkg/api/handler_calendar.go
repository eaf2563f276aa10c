package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Google Calendar push-notification headers read here (§6.2): the
// channel token (set to the tenant id at watch-creation time) and the
// resource state.
const (
	headerChannelToken  = "X-Goog-Channel-Token"
	headerResourceState = "X-Goog-Resource-State"
)

const resourceStateSync = "sync"

// calendarWebhookHandler handles the calendar provider's push notification
// (§4.2 step 1, §6.2): headers only, empty body. "sync" is the initial
// handshake on watch creation and is acknowledged without further work;
// "exists"/"not_exists" trigger the full notification pipeline.
func (s *Server) calendarWebhookHandler(c *gin.Context) {
	tenantID := c.GetHeader(headerChannelToken)
	state := c.GetHeader(headerResourceState)

	if tenantID == "" {
		c.Status(http.StatusOK)
		return
	}
	if state == resourceStateSync {
		c.Status(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := s.calendarOrchestrator.HandleNotification(ctx, tenantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
