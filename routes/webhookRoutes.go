package routes

import (
	"github.com/gin-gonic/gin"
)

func WebhookRoutes(server *gin.Engine, h Handlers) {
	server.POST("/webhooks/nivuspay", h.Webhooks.HandleNivuspayWebhook)
}
