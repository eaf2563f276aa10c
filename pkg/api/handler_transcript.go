package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/transcript"
)

// transcriptContinuationTimeout bounds the detached goroutine that
// continues processing a transcript webhook after the synchronous 200 ack
// (§5): "the detached transcript continuation... carries its own bounded
// deadline."
const transcriptContinuationTimeout = 2 * time.Minute

// transcriptWebhookHandler handles POST /webhooks/transcript/:provider
// (§4.4 step 1, §6.2): the provider payload is read and the handler
// responds 200 immediately, then the orchestrator pipeline runs on a
// detached goroutine so a slow AI call never risks a provider retry.
func (s *Server) transcriptWebhookHandler(c *gin.Context) {
	provider := c.Param("provider")

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	c.Status(http.StatusOK)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), transcriptContinuationTimeout)
		defer cancel()

		result, err := s.transcriptOrchestrator.HandleWebhook(ctx, provider, raw, transcript.Hint{})
		if err != nil {
			slog.Error("transcript webhook processing failed", "provider", provider, "error", err)
			return
		}
		slog.Info("transcript webhook processed", "provider", provider, "result", result)
	}()
}
