package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/services"
	"github.com/Wikid82/lockward/internal/util"
)

// AccessHandler serves the endpoint polled by lock controllers.
type AccessHandler struct {
	service *services.AccessService
}

func NewAccessHandler(service *services.AccessService) *AccessHandler {
	return &AccessHandler{service: service}
}

// Check handles GET /api/v1/access?lock=&card=&issync=
//
// The response body has exactly one key, the lock id as given, mapped to the
// decision.
func (h *AccessHandler) Check(c *gin.Context) {
	req := services.AccessRequest{
		LockID: c.Query("lock"),
		CardID: c.Query("card"),
		IsSync: services.IsSyncProbe(c.Query("issync")),
	}

	decision, err := h.service.Check(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetRequestLogger(c).WithFields(logrus.Fields{
		"lock":    util.SanitizeID(req.LockID),
		"card":    util.SanitizeID(req.CardID),
		"granted": decision.Granted,
		"known":   decision.KnownCard,
		"sync":    req.IsSync,
	}).Debug("access decision")

	c.JSON(http.StatusOK, map[string]bool{decision.LockID: decision.Granted})
}
