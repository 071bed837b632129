package routes

import (
	"github.com/Kariqs/kikomiilano-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine, h Handlers) {
	server.POST("/admin/login", h.Auth.Login)

	admin := server.Group("/admin", middlewares.RequireAuth(h.JWTSecret), middlewares.RequireAdmin())
	{
		admin.GET("/orders", h.Orders.GetOrders)
		admin.GET("/orders/:id", h.Orders.GetOrder)
		admin.PATCH("/orders/:id/status", h.Orders.UpdateOrderStatus)
		admin.GET("/stats", h.Orders.GetStats)
		admin.POST("/products", h.Products.CreateProduct)
		admin.POST("/products/:id/image", h.Products.UploadProductImage)
	}
}
