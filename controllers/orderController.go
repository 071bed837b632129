package controllers

import (
	"net/http"

	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderAdmin
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (c *OrderController) GetOrders(ctx *gin.Context) {
	page, err := c.Orders.List(ctx.Request.Context(), services.OrderFilter{
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
		Page:   queryInt(ctx, "page", 1),
		Limit:  queryInt(ctx, "limit", 15),
		Sort:   ctx.DefaultQuery("sort", "desc"),
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": page.Orders,
		"metadata": gin.H{
			"total":      page.Total,
			"page":       page.Page,
			"limit":      page.Limit,
			"totalPages": (page.Total + int64(page.Limit) - 1) / int64(page.Limit),
		},
	})
}

func (c *OrderController) GetOrder(ctx *gin.Context) {
	order, err := c.Orders.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithServiceError(ctx, services.AsValidationError(err))
		return
	}

	order, err := c.Orders.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func (c *OrderController) GetStats(ctx *gin.Context) {
	stats, err := c.Orders.Stats(ctx.Request.Context())
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, stats)
}
