package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/tenantlifecycle"
)

// createTenantHandler handles POST /admin/tenants (§4.9 paragraph 1).
func (s *Server) createTenantHandler(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid tenant payload"})
		return
	}

	out, err := s.tenants.CreateTenant(c.Request.Context(), tenantlifecycle.TenantInput{
		Name:                      req.Name,
		PlanTier:                  models.PlanTier(req.PlanTier),
		Timezone:                  req.Timezone,
		FilterPhrases:             req.FilterPhrases,
		PromptFragments:           req.PromptFragments,
		DefaultTranscriptProvider: req.DefaultTranscriptProvider,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tenantProvisionedResponse{
		Tenant:                out.Tenant,
		PaymentWebhookURL:     out.PaymentWebhookURL,
		TranscriptWebhookURLs: out.TranscriptWebhookURLs,
		Instructions:          out.Instructions,
	})
}

// createCloserHandler handles POST /admin/tenants/:tenant_id/closers
// (§4.9 paragraph 2).
func (s *Server) createCloserHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	var req createCloserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid closer payload"})
		return
	}

	closer, err := s.tenants.CreateCloser(c.Request.Context(), tenantlifecycle.CloserInput{
		TenantID:                     tenantID,
		Name:                         req.Name,
		WorkEmail:                    req.WorkEmail,
		TranscriptProvider:           req.TranscriptProvider,
		TranscriptProviderCredential: req.TranscriptProviderCredential,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, closer)
}

// deactivateCloserHandler handles POST
// /admin/tenants/:tenant_id/closers/:closer_id/deactivate (§4.9 last
// sentence).
func (s *Server) deactivateCloserHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	closerID := c.Param("closer_id")

	closer, err := s.tenants.DeactivateCloser(c.Request.Context(), tenantID, closerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, closer)
}
