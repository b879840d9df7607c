package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/customer"
	"github.com/plantfloor/tally/internal/domain/plant"
)

// RegistryHandler exposes the plant and customer registries.
type RegistryHandler struct {
	plants    *plant.Service
	customers *customer.Service
	logger    *zap.Logger
}

// NewRegistryHandler constructs the registry HTTP adapter.
func NewRegistryHandler(plants *plant.Service, customers *customer.Service, logger *zap.Logger) *RegistryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryHandler{plants: plants, customers: customers, logger: logger}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePlant registers a plant.
func (h *RegistryHandler) CreatePlant(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.plants.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPlants returns all plants.
func (h *RegistryHandler) ListPlants(c *gin.Context) {
	plants, err := h.plants.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plants)
}

// GetPlant returns one plant.
func (h *RegistryHandler) GetPlant(c *gin.Context) {
	p, err := h.plants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePlant removes a plant and everything hanging off it.
func (h *RegistryHandler) DeletePlant(c *gin.Context) {
	if err := h.plants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCustomer registers a customer.
func (h *RegistryHandler) CreateCustomer(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cust, err := h.customers.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

// ListCustomers returns all customers.
func (h *RegistryHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns one customer.
func (h *RegistryHandler) GetCustomer(c *gin.Context) {
	cust, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// DeleteCustomer removes a customer and their sessions.
func (h *RegistryHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
