package routes

import (
	"github.com/gin-gonic/gin"
)

func CheckoutRoutes(server *gin.Engine, h Handlers) {
	server.POST("/cart/quote", h.Checkout.QuoteCart)
	server.POST("/checkout", h.Checkout.CreateCheckout)
	server.POST("/checkout/cart", h.Checkout.CreateCartCheckout)
}
