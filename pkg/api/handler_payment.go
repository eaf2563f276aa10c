package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/payment"
)

// paymentWebhookHandler handles POST /webhooks/payment/:tenant_id (§4.7,
// §6.2). Authentication is handled by tenantWebhookAuth before this runs.
func (s *Server) paymentWebhookHandler(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var req paymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payment payload"})
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "payment_date must be RFC3339"})
			return
		}
		paymentDate = parsed
	}

	res, err := s.paymentReconciler.Reconcile(c.Request.Context(), payment.Input{
		TenantID:      tenantID,
		ProspectEmail: req.ProspectEmail,
		ProspectName:  req.ProspectName,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		Type:          payment.Type(req.Type),
		Product:       req.Product,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := paymentWebhookResponse{
		Action:   string(res.Outcome),
		Prospect: req.ProspectEmail,
	}
	if res.Call != nil {
		resp.CallID = res.Call.ID
	}
	if res.Prospect != nil {
		resp.Total = res.Prospect.TotalCashCollected
	}
	c.JSON(http.StatusOK, resp)
}
