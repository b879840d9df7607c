package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/session"
)

const dateLayout = "2006-01-02"

// SessionHandler exposes tally session lifecycle and reconciliation.
type SessionHandler struct {
	svc    *session.Service
	logger *zap.Logger
}

// NewSessionHandler constructs the session HTTP adapter.
func NewSessionHandler(svc *session.Service, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{svc: svc, logger: logger}
}

type createSessionRequest struct {
	PlantID    string `json:"plant_id" binding:"required"`
	CustomerID string `json:"customer_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
}

type updateSessionRequest struct {
	CustomerID *string `json:"customer_id"`
	PlantID    *string `json:"plant_id"`
	Date       *string `json:"date"`
	Status     *string `json:"status"`
}

// Create opens a new ongoing session.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	sess, err := h.svc.Create(c.Request.Context(), session.CreateRequest{
		PlantID:    req.PlantID,
		CustomerID: req.CustomerID,
		Date:       date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// Get returns one session.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// List returns sessions matching the query filters, newest date first.
func (h *SessionHandler) List(c *gin.Context) {
	opts, err := listOptionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessions, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Dates returns the distinct dates having sessions, for the date picker.
func (h *SessionHandler) Dates(c *gin.Context) {
	opts, err := listOptionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dates, err := h.svc.Dates(c.Request.Context(), opts)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	c.JSON(http.StatusOK, out)
}

// Update applies partial changes to a session.
func (h *SessionHandler) Update(c *gin.Context) {
	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	upd := session.UpdateRequest{
		ID:         c.Param("id"),
		CustomerID: req.CustomerID,
		PlantID:    req.PlantID,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		upd.Date = &date
	}
	if req.Status != nil {
		status := session.Status(*req.Status)
		upd.Status = &status
	}
	sess, err := h.svc.Update(c.Request.Context(), upd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// Delete removes a session together with its allocations and entries.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reconcile returns the cross-role comparison report for a session.
func (h *SessionHandler) Reconcile(c *gin.Context) {
	rows, err := h.svc.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func listOptionsFromQuery(c *gin.Context) (session.ListOptions, error) {
	opts := session.ListOptions{
		CustomerID: c.Query("customer_id"),
		PlantID:    c.Query("plant_id"),
		Status:     session.Status(c.Query("status")),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return opts, err
		}
		opts.Date = &date
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return opts, err
		}
		opts.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return opts, err
		}
		opts.Offset = offset
	}
	return opts, nil
}
