package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/classification"
)

// ClassificationHandler exposes weight classification administration.
type ClassificationHandler struct {
	svc    *classification.Service
	logger *zap.Logger
}

// NewClassificationHandler constructs the classification HTTP adapter.
func NewClassificationHandler(svc *classification.Service, logger *zap.Logger) *ClassificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassificationHandler{svc: svc, logger: logger}
}

type createClassificationRequest struct {
	Classification string   `json:"classification" binding:"required"`
	Category       string   `json:"category" binding:"required"`
	MinWeight      *float64 `json:"min_weight"`
	MaxWeight      *float64 `json:"max_weight"`
	DefaultHeads   *int     `json:"default_heads"`
	Description    string   `json:"description"`
}

type updateClassificationRequest struct {
	Classification *string  `json:"classification"`
	MinWeight      *float64 `json:"min_weight"`
	MaxWeight      *float64 `json:"max_weight"`
	ClearMin       bool     `json:"clear_min"`
	ClearMax       bool     `json:"clear_max"`
	DefaultHeads   *int     `json:"default_heads"`
	Description    *string  `json:"description"`
}

// Create adds a classification to a plant.
func (h *ClassificationHandler) Create(c *gin.Context) {
	var req createClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	wc, err := h.svc.Create(c.Request.Context(), classification.CreateRequest{
		PlantID:        c.Param("id"),
		Classification: req.Classification,
		Category:       classification.Category(req.Category),
		MinWeight:      req.MinWeight,
		MaxWeight:      req.MaxWeight,
		DefaultHeads:   req.DefaultHeads,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, wc)
}

// ListByPlant returns a plant's classifications in priority order.
func (h *ClassificationHandler) ListByPlant(c *gin.Context) {
	list, err := h.svc.ListByPlant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one classification.
func (h *ClassificationHandler) Get(c *gin.Context) {
	wc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wc)
}

// Update applies partial changes to a classification.
func (h *ClassificationHandler) Update(c *gin.Context) {
	var req updateClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	wc, err := h.svc.Update(c.Request.Context(), classification.UpdateRequest{
		ID:             c.Param("id"),
		Classification: req.Classification,
		MinWeight:      req.MinWeight,
		MaxWeight:      req.MaxWeight,
		ClearMin:       req.ClearMin,
		ClearMax:       req.ClearMax,
		DefaultHeads:   req.DefaultHeads,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wc)
}

// Delete removes a classification.
func (h *ClassificationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resolve classifies a weight against a plant's classification set. Used by
// the recording UI to preview which bucket a bag lands in.
func (h *ClassificationHandler) Resolve(c *gin.Context) {
	weight, err := strconv.ParseFloat(c.Query("weight"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weight query parameter required"})
		return
	}
	wc, err := h.svc.Resolve(c.Request.Context(), c.Param("id"), weight)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"classification": wc,
		"range":          classification.FormatWeightRange(*wc),
	})
}
