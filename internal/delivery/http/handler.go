package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skinshelf/backend/internal/domain"
	"github.com/skinshelf/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.CatalogService) *Handler {
	return &Handler{service: service}
}

// ready rejects requests arriving before the catalog service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog service not configured",
		})
		return false
	}
	return true
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "skinshelf-backend",
		"version": "1.0.0",
	})
}

// catalogPayload builds the standard catalog envelope. The notice field
// is only present when the service degraded somewhere.
func (h *Handler) catalogPayload(products []domain.Product) gin.H {
	payload := gin.H{
		"products":  products,
		"count":     len(products),
		"source":    h.service.LastTier().String(),
		"favorites": h.service.FavoriteIDs(),
	}
	if notice := h.service.Diagnostic(); notice != "" {
		payload["notice"] = notice
	}
	return payload
}

// searchPayload builds the envelope for search responses, pairing the
// session state with the products currently visible for its query
func (h *Handler) searchPayload() gin.H {
	state := h.service.SearchState()
	payload := gin.H{
		"search":   state,
		"products": h.service.Filtered(state.Query),
	}
	if notice := h.service.Diagnostic(); notice != "" {
		payload["notice"] = notice
	}
	return payload
}

// GetCatalog returns the products visible for an optional query filter
func (h *Handler) GetCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	products := h.service.Filtered(c.Query("q"))
	c.JSON(http.StatusOK, h.catalogPayload(products))
}

type searchRequest struct {
	Query string `json:"query"`
}

// SearchCatalog starts a fresh remote search session. An empty query
// clears the session. Directory failures degrade to a fallback catalog,
// so the response is still 200 with a notice attached.
func (h *Handler) SearchCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.service.Search(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, h.searchPayload())
}

// LoadMoreResults fetches the next page of the active search session
func (h *Handler) LoadMoreResults(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.service.LoadMore(c.Request.Context())
	c.JSON(http.StatusOK, h.searchPayload())
}

// RefreshFromBundle rebuilds the catalog from the packaged seed
func (h *Handler) RefreshFromBundle(c *gin.Context) {
	if !h.ready(c) {
		return
	}
	h.service.ForceRefreshFromBundle()
	c.JSON(http.StatusOK, h.catalogPayload(h.service.Catalog()))
}

type sampleRequest struct {
	Count int `json:"count"`
}

// RefreshSample replaces the catalog with a fresh random sample. The
// body is optional; without one the configured sample size is used.
func (h *Handler) RefreshSample(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req sampleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	h.service.LoadRandomSample(c.Request.Context(), req.Count)
	c.JSON(http.StatusOK, h.catalogPayload(h.service.Catalog()))
}

// GetProductByBarcode resolves a barcode to a product. An unknown
// barcode is 404; a directory outage is 502 so the client can tell the
// two apart.
func (h *Handler) GetProductByBarcode(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	product, err := h.service.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		case errors.Is(err, domain.ErrDirectoryFailure), errors.Is(err, domain.ErrDecodeFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "product directory temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product lookup failed"})
		}
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrProductNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

type toggleFavoriteRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Barcode     string   `json:"barcode"`
	Concerns    []string `json:"concerns"`
	Ingredients []string `json:"ingredients"`
	Rating      *float64 `json:"rating"`
}

// ToggleFavorite flips the favorite state for the submitted product.
// Scanned products arrive without an ID and get one assigned, which the
// response echoes back so the client can toggle again later.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ID == "" && req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id or name is required"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	h.service.ToggleFavorite(domain.Product{
		ID:          req.ID,
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Barcode:     req.Barcode,
		Concerns:    req.Concerns,
		Ingredients: req.Ingredients,
		Rating:      req.Rating,
	})

	c.JSON(http.StatusOK, gin.H{
		"id":          req.ID,
		"isFavorited": h.service.IsFavorite(req.ID),
		"favorites":   h.service.FavoriteIDs(),
	})
}

// GetFavorites returns the favorite IDs and their product records
func (h *Handler) GetFavorites(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	products := h.service.FavoriteProducts()
	c.JSON(http.StatusOK, gin.H{
		"favorites": h.service.FavoriteIDs(),
		"products":  products,
		"count":     len(products),
	})
}
