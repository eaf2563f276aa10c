package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// securityHeaders sets standard response headers on every response.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or the empty string if absent/malformed.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

// adminAuth rejects requests whose bearer token does not match the
// system-wide admin key, read from the environment variable named by
// cfg.AdminKeyEnv (§4.9 tenant/closer provisioning is an admin operation).
func adminAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		want := os.Getenv(cfg.AdminKeyEnv)
		if want == "" || bearerToken(c) != want {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing or invalid admin credentials"})
			return
		}
		c.Next()
	}
}

// tenantWebhookAuth resolves the tenant id path parameter named
// tenantParam, validates the request's bearer token against that tenant's
// stored webhook secret (§6.2 payment webhook authentication), and stashes
// the resolved tenant id in the gin context for the handler.
func tenantWebhookAuth(gw warehouse.AdminGateway, tenantParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param(tenantParam)
		tenant, err := gw.GetTenant(c.Request.Context(), tenantID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "unknown tenant"})
			return
		}
		token := bearerToken(c)
		if token == "" || token != tenant.WebhookSecret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid webhook credentials"})
			return
		}
		c.Set("tenant_id", tenantID)
		c.Next()
	}
}
