package routes

import (
	"github.com/Kariqs/kikomiilano-api/controllers"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the controllers the router mounts.
type Handlers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Checkout  *controllers.CheckoutController
	Webhooks  *controllers.WebhookController
	Orders    *controllers.OrderController
	JWTSecret string
}

func Register(server *gin.Engine, h Handlers) {
	DefaultRoutes(server)
	ProductRoutes(server, h)
	CheckoutRoutes(server, h)
	WebhookRoutes(server, h)
	AdminRoutes(server, h)
}
