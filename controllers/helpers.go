package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidInput        = "invalid input"
	msgInternalServerError = "Internal server error"
	msgNotFound            = "not found"
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError logs the underlying error and sends only the message.
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		log.Printf("%s %s: %s: %v", ctx.Request.Method, ctx.FullPath(), message, err)
	}
	sendErrorResponse(ctx, statusCode, message)
}

// respondWithServiceError maps the service error taxonomy onto HTTP.
func respondWithServiceError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &verr):
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{"message": msgInvalidInput, "fields": verr.Fields})
	case errors.As(err, &nf):
		sendErrorResponse(ctx, http.StatusNotFound, nf.Resource+" "+msgNotFound)
	default:
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
	}
}

func queryInt(ctx *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(ctx.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
