package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/services"
)

type AccessLogHandler struct {
	service *services.AccessLogService
	// newCardWindow is how far back the self-registration view looks.
	newCardWindow time.Duration
	now           func() time.Time
}

func NewAccessLogHandler(db *gorm.DB, newCardWindow time.Duration) *AccessLogHandler {
	return &AccessLogHandler{
		service:       services.NewAccessLogService(db),
		newCardWindow: newCardWindow,
		now:           time.Now,
	}
}

// List handles GET /api/v1/access-logs?limit=&card=&lock=
func (h *AccessLogHandler) List(c *gin.Context) {
	f := services.AccessLogFilter{
		LockID: c.Query("lock"),
		CardID: c.Query("card"),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		f.Limit = n
	}

	logs, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// NewCards handles GET /api/v1/access-logs/new-cards. It lists swipes of
// unrecognised cards inside the self-registration window so an admin can
// pick the one just presented at a reader.
func (h *AccessLogHandler) NewCards(c *gin.Context) {
	since := h.now().UTC().Add(-h.newCardWindow)
	logs, err := h.service.RecentNewCards(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"since": since, "entries": logs})
}

// Get handles GET /api/v1/access-logs/:uuid
func (h *AccessLogHandler) Get(c *gin.Context) {
	entry, err := h.service.GetByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type scoreInput struct {
	Score *int `json:"score" binding:"required"`
}

// Score handles PUT /api/v1/access-logs/:uuid/score
func (h *AccessLogHandler) Score(c *gin.Context) {
	var in scoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	entry, err := h.service.UpdateScore(c.Request.Context(), c.Param("uuid"), *in.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ScoreReport handles GET /api/v1/access-logs/score-report
func (h *AccessLogHandler) ScoreReport(c *gin.Context) {
	report, err := h.service.ScoreReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
