package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidCheckout = "Missing or invalid checkout data"
	msgProductNotFound = "Product not found"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
}

func checkoutFailure(ctx *gin.Context, status int, message string, fields map[string]string) {
	body := gin.H{"success": false, "error": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	sendJSONResponse(ctx, status, body)
}

// respond writes a checkout outcome. A result that comes back together with
// an error is a payment failure: the order exists and is marked failed.
func (c *CheckoutController) respond(ctx *gin.Context, result *services.CheckoutResult, err error) {
	if err == nil {
		sendJSONResponse(ctx, http.StatusOK, result)
		return
	}
	if result != nil {
		sendJSONResponse(ctx, http.StatusBadRequest, result)
		return
	}

	var verr *services.ValidationError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &verr):
		checkoutFailure(ctx, http.StatusBadRequest, msgInvalidCheckout, verr.Fields)
	case errors.As(err, &nf):
		checkoutFailure(ctx, http.StatusNotFound, msgProductNotFound, nil)
	default:
		log.Printf("[checkout] internal failure: %v", err)
		checkoutFailure(ctx, http.StatusInternalServerError, msgInternalServerError, nil)
	}
}

func (c *CheckoutController) CreateCheckout(ctx *gin.Context) {
	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		checkoutFailure(ctx, http.StatusBadRequest, msgInvalidCheckout, services.AsValidationError(err).Fields)
		return
	}

	result, err := c.Checkout.Checkout(ctx.Request.Context(), req)
	c.respond(ctx, result, err)
}

func (c *CheckoutController) CreateCartCheckout(ctx *gin.Context) {
	var req services.CartCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		checkoutFailure(ctx, http.StatusBadRequest, msgInvalidCheckout, services.AsValidationError(err).Fields)
		return
	}

	cart, err := c.Checkout.BuildCart(ctx.Request.Context(), req.Items)
	if err != nil {
		c.respond(ctx, nil, err)
		return
	}
	result, err := c.Checkout.CheckoutCart(ctx.Request.Context(), req, cart)
	c.respond(ctx, result, err)
}
