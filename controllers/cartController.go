package controllers

import (
	"net/http"

	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/gin-gonic/gin"
)

type cartQuoteRequest struct {
	Items []services.CartItemInput `json:"items" binding:"required,min=1,dive"`
}

type cartQuoteLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// QuoteCart prices a browsing cart against the catalog. Nothing is stored.
func (c *CheckoutController) QuoteCart(ctx *gin.Context) {
	var req cartQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithServiceError(ctx, services.AsValidationError(err))
		return
	}

	cart, err := c.Checkout.BuildCart(ctx.Request.Context(), req.Items)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	lines := make([]cartQuoteLine, 0, cart.Len())
	for _, line := range cart.Lines() {
		lines = append(lines, cartQuoteLine{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			ImageURL:  line.Product.ImageURL,
			UnitPrice: line.Product.Price.StringFixed(2),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().StringFixed(2),
		})
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"items": lines,
		"total": cart.Total().StringFixed(2),
	})
}
