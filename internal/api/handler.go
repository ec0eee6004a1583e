package api

import (
	"net/http"
	"strconv"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/service"
	"catalog-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalogService *service.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalogService *service.CatalogService) *Handler {
	return &Handler{
		catalogService: catalogService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/featured", h.getFeatured)
		v1.GET("/products/new-arrivals", h.getNewArrivals)
		v1.GET("/products/best-sellers", h.getBestSellers)
		v1.GET("/products/:id/related", h.getRelated)
		v1.GET("/products/slug/:slug", h.getProduct)
		v1.GET("/categories", h.listCategories)
		v1.POST("/products/:id/stock/decrease", h.decreaseStock)

		admin := v1.Group("/admin")
		{
			admin.GET("/products", h.listProductsAdmin)
			admin.GET("/orders", h.listOrders)
			admin.GET("/reviews", h.listReviews)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func respondData(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondServiceError maps engine errors onto the wire: rejected filter
// values are the caller's fault, everything else is infrastructure.
func respondServiceError(c *gin.Context, err error) {
	if catalog.IsValidationError(err) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, "query failed")
}

func filterParamsFromQuery(c *gin.Context) catalog.FilterParams {
	return catalog.FilterParams{
		CategoryID: c.Query("category_id"),
		Status:     c.Query("status"),
		MinPrice:   c.Query("min_price"),
		MaxPrice:   c.Query("max_price"),
		Search:     c.Query("search"),
		Featured:   c.Query("featured"),
		NewArrival: c.Query("new_arrival"),
		BestSeller: c.Query("best_seller"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
	}
}

// listProducts handles the public product listing with filters
func (h *Handler) listProducts(c *gin.Context) {
	result, err := h.catalogService.ListProducts(c.Request.Context(), filterParamsFromQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, gin.H{
		"products":   result.Items,
		"pagination": result.Pagination,
	})
}

// listProductsAdmin handles the admin product listing (status=all allowed)
func (h *Handler) listProductsAdmin(c *gin.Context) {
	result, err := h.catalogService.ListProductsAdmin(c.Request.Context(), filterParamsFromQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, gin.H{
		"products":   result.Items,
		"pagination": result.Pagination,
	})
}

// curatedLimit parses the optional limit query value; 0 means "use the
// configured default"
func curatedLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid limit: must be numeric")
		return 0, false
	}
	return limit, true
}

func (h *Handler) getFeatured(c *gin.Context) {
	limit, ok := curatedLimit(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, gin.H{"products": products})
}

func (h *Handler) getNewArrivals(c *gin.Context) {
	limit, ok := curatedLimit(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetNewArrivals(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, gin.H{"products": products})
}

func (h *Handler) getBestSellers(c *gin.Context) {
	limit, ok := curatedLimit(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetBestSellers(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, gin.H{"products": products})
}

// getRelated handles related products for a source product
func (h *Handler) getRelated(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product ID")
		return
	}

	categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category_id: must be numeric")
		return
	}

	limit, ok := curatedLimit(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetRelated(c.Request.Context(), productID, categoryID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, gin.H{"products": products})
}

// getProduct handles product detail by slug
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}
	respondData(c, gin.H{"product": product})
}

// listCategories handles the category tree with product counts
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, gin.H{"categories": categories})
}

type decreaseStockRequest struct {
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// decreaseStock handles the atomic stock decrement. A false "decreased"
// in the response means insufficient stock, which is not an HTTP error.
func (h *Handler) decreaseStock(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req decreaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	decreased, err := h.catalogService.DecreaseStock(c.Request.Context(), productID, req.Quantity, req.IdempotencyKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, gin.H{
		"product_id": productID,
		"decreased":  decreased,
	})
}

// listOrders handles the admin order listing
func (h *Handler) listOrders(c *gin.Context) {
	result, err := h.catalogService.ListOrders(c.Request.Context(), service.AdminListParams{
		Status: c.Query("status"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, gin.H{
		"orders":     result.Items,
		"pagination": result.Pagination,
	})
}

// listReviews handles the admin review listing
func (h *Handler) listReviews(c *gin.Context) {
	result, err := h.catalogService.ListReviews(c.Request.Context(), service.AdminListParams{
		Status: c.Query("status"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, gin.H{
		"reviews":    result.Items,
		"pagination": result.Pagination,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
