package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Govind-619/PayGate/services"
	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	payments *services.PaymentService
}

func NewWebhookController(payments *services.PaymentService) *WebhookController {
	return &WebhookController{payments: payments}
}

// HandleWebhook handles POST /webhook. The signature covers the exact bytes
// received, so the body is read raw and never re-encoded.
func (ctl *WebhookController) HandleWebhook(c *gin.Context) {
	utils.LogInfo("HandleWebhook called")

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.LogWarn("Webhook body over %d bytes rejected", utils.MaxWebhookBodyBytes)
			utils.Error(c, http.StatusRequestEntityTooLarge, "Webhook payload too large.")
			return
		}
		utils.RespondError(c, utils.ValidationError("Invalid webhook payload.", err))
		return
	}

	rc := utils.NewRequestContext(c, 0)
	rc.RawBody = body

	outcome, err := ctl.payments.HandleWebhook(c.Request.Context(), rc, rc.RawBody, c.GetHeader(utils.WebhookSignatureHeader))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Webhook %s processed (applied: %t)", outcome.Event, outcome.Applied)
	utils.Success(c, utils.MsgWebhookProcessed, nil)
}
