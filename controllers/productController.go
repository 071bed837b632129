package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxImageSize = 5 << 20

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type ProductController struct {
	DB     *gorm.DB
	Images ImageUploader
}

func (c *ProductController) GetProducts(ctx *gin.Context) {
	page := queryInt(ctx, "page", 1)
	limit := queryInt(ctx, "limit", 12)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := c.DB.WithContext(ctx.Request.Context()).Model(&models.Product{})
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if ctx.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to count products", err)
		return
	}

	var products []models.Product
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&products).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to retrieve products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (c *ProductController) findProduct(ctx *gin.Context) (*models.Product, bool) {
	var product models.Product
	err := c.DB.WithContext(ctx.Request.Context()).First(&product, "id = ?", ctx.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return nil, false
	}
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to retrieve product", err)
		return nil, false
	}
	return &product, true
}

func (c *ProductController) GetProduct(ctx *gin.Context) {
	product, ok := c.findProduct(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, product)
}

func (c *ProductController) CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !product.Price.IsPositive() {
		sendErrorResponse(ctx, http.StatusBadRequest, "Price must be greater than zero")
		return
	}
	product.ID = ""

	if err := c.DB.WithContext(ctx.Request.Context()).Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, product)
}

func (c *ProductController) UploadProductImage(ctx *gin.Context) {
	if c.Images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}
	product, ok := c.findProduct(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}
	if file.Size > maxImageSize {
		sendErrorResponse(ctx, http.StatusBadRequest, "Image is too large")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		sendErrorResponse(ctx, http.StatusBadRequest, "File is not an image")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Could not read file", err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("products/%s-%s%s", product.ID, time.Now().Format("20060102150405"), strings.ToLower(filepath.Ext(file.Filename)))
	url, err := c.Images.Upload(ctx.Request.Context(), key, f, contentType)
	if err != nil {
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", err)
		return
	}

	if err := c.DB.WithContext(ctx.Request.Context()).Model(product).Update("image_url", url).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image URL", err)
		return
	}
	log.Printf("Uploaded image for product %s: %s", product.ID, url)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"image_url": url})
}
