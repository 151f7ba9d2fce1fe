package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/models"
	"github.com/Wikid82/lockward/internal/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{service: services.NewProjectService(db)}
}

type projectInput struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

type projectUpdateInput struct {
	Name        *string `json:"name"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

// List handles GET /api/v1/projects?owner=
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(), c.Query("owner"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create handles POST /api/v1/projects. The owner defaults to the caller.
func (h *ProjectHandler) Create(c *gin.Context) {
	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	owner := in.Owner
	if owner == "" {
		owner = middleware.Actor(c)
	}
	project := models.Project{
		UID:         in.UID,
		Name:        in.Name,
		URL:         in.URL,
		Description: in.Description,
		Owner:       owner,
	}
	if err := h.service.Create(c.Request.Context(), &project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Get handles GET /api/v1/projects/:uid
func (h *ProjectHandler) Get(c *gin.Context) {
	project, cards, err := h.service.GetByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project, "cards": cards})
}

// Update handles PUT /api/v1/projects/:uid
func (h *ProjectHandler) Update(c *gin.Context) {
	var in projectUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c, err)
		return
	}
	project, err := h.service.Update(c.Request.Context(), c.Param("uid"), services.ProjectUpdate{
		Name:        in.Name,
		URL:         in.URL,
		Description: in.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /api/v1/projects/:uid
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
