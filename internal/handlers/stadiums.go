package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sanam/internal/models"
)

// Stadium catalog handlers

// CreateStadium - POST /api/stadiums
func (h *Handlers) CreateStadium(c *gin.Context) {
	var req models.CreateStadiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stadium, err := h.services.Stadiums.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stadium)
}

// ListStadiums - GET /api/stadiums
func (h *Handlers) ListStadiums(c *gin.Context) {
	stadiums, err := h.services.Stadiums.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stadiums)
}

// GetStadium - GET /api/stadiums/:id
func (h *Handlers) GetStadium(c *gin.Context) {
	stadium, err := h.services.Stadiums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stadium)
}

// GetStadiumStatus - GET /api/stadiums/:id/status
// Статус стадиона, спроецированный из активных бронирований
func (h *Handlers) GetStadiumStatus(c *gin.Context) {
	status, err := h.services.Availability.AggregateStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stadium_id": c.Param("id"),
		"status":     status,
	})
}

// ListBuildings - GET /api/stadiums/:id/buildings
func (h *Handlers) ListBuildings(c *gin.Context) {
	buildings, err := h.services.Stadiums.ListBuildings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildings)
}

// CreateBuilding - POST /api/stadiums/:id/buildings
func (h *Handlers) CreateBuilding(c *gin.Context) {
	var req models.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	building, err := h.services.Stadiums.CreateBuilding(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, building)
}

// Equipment catalog handlers

// CreateEquipment - POST /api/equipment
func (h *Handlers) CreateEquipment(c *gin.Context) {
	var req models.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipment, err := h.services.Equipment.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, equipment)
}

// ListEquipment - GET /api/equipment
func (h *Handlers) ListEquipment(c *gin.Context) {
	items, err := h.services.Equipment.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetEquipment - GET /api/equipment/:id
func (h *Handlers) GetEquipment(c *gin.Context) {
	equipment, err := h.services.Equipment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}
