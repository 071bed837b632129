package routes

import (
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, h Handlers) {
	server.GET("/products", h.Products.GetProducts)
	server.GET("/products/:id", h.Products.GetProduct)
}
