package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
)

// AllocationHandler exposes allocation administration.
type AllocationHandler struct {
	svc    *allocation.Service
	logger *zap.Logger
}

// NewAllocationHandler constructs the allocation HTTP adapter.
func NewAllocationHandler(svc *allocation.Service, logger *zap.Logger) *AllocationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationHandler{svc: svc, logger: logger}
}

type createAllocationRequest struct {
	WeightClassificationID string `json:"weight_classification_id" binding:"required"`
	RequiredBags           int    `json:"required_bags"`
}

type updateAllocationRequest struct {
	WeightClassificationID *string `json:"weight_classification_id"`
	RequiredBags           *int    `json:"required_bags"`
}

type resetCountsRequest struct {
	Tally      bool `json:"tally"`
	Dispatcher bool `json:"dispatcher"`
}

// Create adds an allocation to a session.
func (h *AllocationHandler) Create(c *gin.Context) {
	var req createAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a, err := h.svc.Create(c.Request.Context(), c.Param("id"), req.WeightClassificationID, req.RequiredBags)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListBySession returns a session's allocations with fresh counters.
func (h *AllocationHandler) ListBySession(c *gin.Context) {
	list, err := h.svc.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one allocation.
func (h *AllocationHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Update changes an allocation's quota or classification binding.
func (h *AllocationHandler) Update(c *gin.Context) {
	var req updateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a, err := h.svc.Update(c.Request.Context(), allocation.UpdateRequest{
		ID:                     c.Param("id"),
		WeightClassificationID: req.WeightClassificationID,
		RequiredBags:           req.RequiredBags,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete removes an allocation row, leaving its log entries in place.
func (h *AllocationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurgeEntries deletes the log entries behind an allocation's pairing.
func (h *AllocationHandler) PurgeEntries(c *gin.Context) {
	deleted, err := h.svc.PurgeEntries(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries_deleted": deleted})
}

// RefreshCounts re-snapshots a session's cached counters from the entry set.
func (h *AllocationHandler) RefreshCounts(c *gin.Context) {
	drifted, err := h.svc.RefreshCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drifted": drifted})
}

// ResetCounts wipes the selected roles' entries for a session and zeroes the
// corresponding counters.
func (h *AllocationHandler) ResetCounts(c *gin.Context) {
	var req resetCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, deleted, err := h.svc.ResetCounts(c.Request.Context(), c.Param("id"), req.Tally, req.Dispatcher)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"allocations_updated": updated,
		"entries_deleted":     deleted,
	})
}
