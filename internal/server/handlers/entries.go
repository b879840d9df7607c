package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/domain/entry"
)

// EntryHandler exposes the tally entry workflow, queries, edits and transfer.
type EntryHandler struct {
	workflow *entry.Workflow
	svc      *entry.Service
	audits   *audit.Service
	logger   *zap.Logger
}

// NewEntryHandler constructs the entry HTTP adapter.
func NewEntryHandler(workflow *entry.Workflow, svc *entry.Service, audits *audit.Service, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{workflow: workflow, svc: svc, audits: audits, logger: logger}
}

type attemptRequest struct {
	SessionID        string  `json:"session_id" binding:"required"`
	Role             string  `json:"role" binding:"required"`
	Mode             string  `json:"mode" binding:"required"`
	Weight           float64 `json:"weight"`
	Heads            *int    `json:"heads"`
	ClassificationID string  `json:"classification_id"`
	Notes            string  `json:"notes"`
	Quantity         int     `json:"quantity"`
	Confirmed        bool    `json:"confirmed"`
}

func (r attemptRequest) input() (entry.AttemptInput, int) {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return entry.AttemptInput{
		SessionID:        r.SessionID,
		Role:             allocation.Role(r.Role),
		Mode:             entry.Mode(r.Mode),
		Weight:           r.Weight,
		Heads:            r.Heads,
		ClassificationID: r.ClassificationID,
		Notes:            r.Notes,
	}, quantity
}

type updateEntryRequest struct {
	Actor  string   `json:"actor"`
	Weight *float64 `json:"weight"`
	Heads  *int     `json:"heads"`
	Notes  *string  `json:"notes"`
}

type transferRequest struct {
	EntryIDs        []string `json:"entry_ids" binding:"required"`
	TargetSessionID string   `json:"target_session_id" binding:"required"`
}

// Evaluate dry-runs an entry attempt and returns the decision without
// creating anything.
func (h *EntryHandler) Evaluate(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input, quantity := req.input()
	eval, err := h.workflow.Evaluate(c.Request.Context(), input, quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

// Commit creates the entries for an attempt. A partial batch failure returns
// 207 with the entries that made it.
func (h *EntryHandler) Commit(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input, quantity := req.input()
	created, err := h.workflow.Commit(c.Request.Context(), input, quantity, req.Confirmed)
	if err != nil {
		var batchErr *entry.PartialBatchError
		if errors.As(err, &batchErr) {
			c.JSON(http.StatusMultiStatus, gin.H{
				"entries":   created,
				"succeeded": batchErr.Succeeded,
				"failed":    batchErr.Failed,
				"error":     batchErr.Error(),
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entries": created})
}

// ListBySession returns a session's entries, newest first, optionally
// filtered by role.
func (h *EntryHandler) ListBySession(c *gin.Context) {
	var role *allocation.Role
	if raw := c.Query("role"); raw != "" {
		r := allocation.Role(raw)
		if !allocation.ValidRole(r) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		role = &r
	}
	entries, err := h.svc.ListBySession(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Get returns one entry.
func (h *EntryHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Update edits an entry's weight, heads or notes.
func (h *EntryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	e, err := h.svc.Update(c.Request.Context(), entry.UpdateRequest{
		ID:     c.Param("id"),
		Actor:  req.Actor,
		Weight: req.Weight,
		Heads:  req.Heads,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Delete removes an entry.
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transfer moves entries to another session.
func (h *EntryHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	moved, err := h.svc.Transfer(c.Request.Context(), req.EntryIDs, req.TargetSessionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transferred": moved})
}

// AuditTrail returns the edit history of an entry, oldest first.
func (h *EntryHandler) AuditTrail(c *gin.Context) {
	trail, err := h.audits.ListByEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trail)
}
