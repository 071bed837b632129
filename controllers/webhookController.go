package controllers

import (
	"log"
	"net/http"

	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/gin-gonic/gin"
)

// SignatureHeader must be present on every processor notification. Its value
// is not verified.
const SignatureHeader = "nivuspay-signature"

type WebhookController struct {
	Reconciler *services.WebhookReconciler
}

func (c *WebhookController) HandleNivuspayWebhook(ctx *gin.Context) {
	if ctx.GetHeader(SignatureHeader) == "" {
		ctx.String(http.StatusBadRequest, "Missing signature")
		return
	}

	var payload services.WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		log.Printf("[webhook] invalid payload: %v", err)
		ctx.String(http.StatusBadRequest, "Invalid payload")
		return
	}

	if _, err := c.Reconciler.Reconcile(ctx.Request.Context(), payload); err != nil {
		log.Printf("[webhook] reconcile failed: %v", err)
		ctx.String(http.StatusInternalServerError, "Error")
		return
	}

	ctx.String(http.StatusOK, "OK")
}
