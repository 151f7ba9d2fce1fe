package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/models"
	"github.com/Wikid82/lockward/internal/services"
)

type CardHandler struct {
	service *services.CardService
}

func NewCardHandler(db *gorm.DB) *CardHandler {
	return &CardHandler{service: services.NewCardService(db)}
}

// cardInput is the admin payload for creating and editing cards. Locks and
// projects are referenced by uid. "checked" is accepted as an alias of
// "approved" for older admin clients.
type cardInput struct {
	UID         *string   `json:"uid"`
	Name        *string   `json:"name"`
	IDNumber    *string   `json:"id_number"`
	Mobile      *string   `json:"mobile"`
	Email       *string   `json:"email"`
	MemberID    *string   `json:"member_id"`
	Description *string   `json:"description"`
	Expertise   *string   `json:"expertise"`
	Rank        *int      `json:"rank"`
	Approved    *bool     `json:"approved"`
	Checked     *bool     `json:"checked"`
	Locks       *[]string `json:"locks"`
	Projects    *[]string `json:"projects"`
}

func (in cardInput) update() services.CardUpdate {
	approved := in.Approved
	if approved == nil {
		approved = in.Checked
	}
	return services.CardUpdate{
		UID:         in.UID,
		Name:        in.Name,
		IDNumber:    in.IDNumber,
		Mobile:      in.Mobile,
		Email:       in.Email,
		MemberID:    in.MemberID,
		Description: in.Description,
		Expertise:   in.Expertise,
		Rank:        in.Rank,
		Approved:    approved,
		LockUIDs:    in.Locks,
		ProjectUIDs: in.Projects,
	}
}

type cardDetail struct {
	Card    *models.Card            `json:"card"`
	Locks   []models.LockAssignment `json:"locks"`
	Created bool                    `json:"created"`
}

// List handles GET /api/v1/cards
func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.service.List(c.Request.Context(), c.Query("member_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// Create handles POST /api/v1/cards
func (h *CardHandler) Create(c *gin.Context) {
	var in cardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	card, err := h.service.Register(c.Request.Context(), in.update(), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// Get handles GET /api/v1/cards/:uid. A uid that has only been seen on a
// reader gets an unapproved placeholder so it can be filled in.
func (h *CardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	card, created, err := h.service.GetOrCreatePlaceholder(ctx, c.Param("uid"), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	locks, err := h.service.LockAssignments(ctx, card)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cardDetail{Card: card, Locks: locks, Created: created})
}

// Update handles PUT /api/v1/cards/:uid
func (h *CardHandler) Update(c *gin.Context) {
	var in cardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	card, err := h.service.Update(c.Request.Context(), c.Param("uid"), in.update(), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type lockAssignmentInput struct {
	Locks []string `json:"locks" binding:"required"`
}

// AssignLocks handles PUT /api/v1/cards/:uid/locks. The list replaces the
// current assignment set; an empty list retracts every lock.
func (h *CardHandler) AssignLocks(c *gin.Context) {
	var in lockAssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	card, err := h.service.AssignLocks(c.Request.Context(), c.Param("uid"), in.Locks, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Approve handles POST /api/v1/cards/:uid/approve
func (h *CardHandler) Approve(c *gin.Context) { h.setApproved(c, true) }

// Revoke handles POST /api/v1/cards/:uid/revoke
func (h *CardHandler) Revoke(c *gin.Context) { h.setApproved(c, false) }

func (h *CardHandler) setApproved(c *gin.Context, approved bool) {
	card, err := h.service.SetApproved(c.Request.Context(), c.Param("uid"), approved, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete handles DELETE /api/v1/cards/:uid
func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}
