package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/models"
	"github.com/Wikid82/lockward/internal/services"
)

type LockHandler struct {
	service *services.LockService
}

func NewLockHandler(db *gorm.DB) *LockHandler {
	return &LockHandler{service: services.NewLockService(db)}
}

type lockInput struct {
	UID         *string `json:"uid"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/v1/locks
func (h *LockHandler) List(c *gin.Context) {
	locks, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locks)
}

// Create handles POST /api/v1/locks
func (h *LockHandler) Create(c *gin.Context) {
	var in lockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	lock := models.Lock{}
	if in.UID != nil {
		lock.UID = *in.UID
	}
	if in.Name != nil {
		lock.Name = *in.Name
	}
	if in.Description != nil {
		lock.Description = *in.Description
	}

	if err := h.service.Create(c.Request.Context(), &lock); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lock)
}

// Get handles GET /api/v1/locks/:uid
func (h *LockHandler) Get(c *gin.Context) {
	lock, err := h.service.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lock)
}

// Update handles PUT /api/v1/locks/:uid
func (h *LockHandler) Update(c *gin.Context) {
	var in lockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	lock, err := h.service.Update(c.Request.Context(), c.Param("uid"), services.LockUpdate{
		UID:         in.UID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lock)
}

// Delete handles DELETE /api/v1/locks/:uid
func (h *LockHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lock deleted"})
}
