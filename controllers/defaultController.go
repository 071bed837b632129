package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Kiko Milano storefront API.

STOREFRONT
- GET "/products" - List products (page, limit, category, featured, search)
- GET "/products/:id" - Get product by ID
- POST "/cart/quote" - Price a cart against the catalog
- POST "/checkout" - Buy a single product
- POST "/checkout/cart" - Buy every item in a cart

PAYMENTS
- POST "/webhooks/nivuspay" - Payment processor notifications

ADMIN
- POST "/admin/login" - Operator login
- GET "/admin/orders" - List orders (page, limit, sort, search, status)
- GET "/admin/orders/:id" - Get order by ID
- PATCH "/admin/orders/:id/status" - Update payment status
- GET "/admin/stats" - Dashboard counters
- POST "/admin/products" - Create product
- POST "/admin/products/:id/image" - Upload product image`

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message})
}
