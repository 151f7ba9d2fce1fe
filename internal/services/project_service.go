package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/models"
)

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string
	URL         *string
	Description *string
}

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// List returns projects, optionally restricted to one owner.
func (s *ProjectService) List(ctx context.Context, owner string) ([]models.Project, error) {
	var projects []models.Project
	q := s.db.WithContext(ctx).Order("updated_at desc")
	if owner != "" {
		q = q.Where("owner = ?", owner)
	}
	if err := q.Find(&projects).Error; err != nil {
		return nil, storageErr("list projects", err)
	}
	return projects, nil
}

// GetByUID returns the project and the cards associated with it.
func (s *ProjectService) GetByUID(ctx context.Context, uid string) (*models.Project, []models.Card, error) {
	db := s.db.WithContext(ctx)
	var project models.Project
	if err := db.Where("uid = ?", uid).First(&project).Error; err != nil {
		return nil, nil, storageErr("project lookup", err)
	}
	var cards []models.Card
	err := db.Joins("JOIN card_projects ON card_projects.card_id = cards.id").
		Where("card_projects.project_id = ?", project.ID).
		Order("cards.name asc").
		Find(&cards).Error
	if err != nil {
		return nil, nil, storageErr("project cards", err)
	}
	return &project, cards, nil
}

// Create adds a project; a taken uid fails with KindDuplicateIdentifier.
func (s *ProjectService) Create(ctx context.Context, p *models.Project) error {
	p.UID = strings.TrimSpace(p.UID)
	if p.UID == "" {
		return badRequest("create project", "uid is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return badRequest("create project", "name is required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUIDFree(tx, &models.Project{}, p.UID, "create project"); err != nil {
			return err
		}
		p.ID = 0
		return storageErr("create project", tx.Create(p).Error)
	})
}

// Update applies a partial update.
func (s *ProjectService) Update(ctx context.Context, uid string, u ProjectUpdate) (*models.Project, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, badRequest("update project", "name must not be empty")
	}
	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).First(&project).Error; err != nil {
			return storageErr("update project", err)
		}
		setString(&project.Name, u.Name)
		setString(&project.URL, u.URL)
		setString(&project.Description, u.Description)
		return storageErr("update project", tx.Save(&project).Error)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and its card associations.
func (s *ProjectService) Delete(ctx context.Context, uid string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("uid = ?", uid).First(&project).Error; err != nil {
			return storageErr("delete project", err)
		}
		if err := tx.Exec("DELETE FROM card_projects WHERE project_id = ?", project.ID).Error; err != nil {
			return storageErr("delete project", err)
		}
		return storageErr("delete project", tx.Delete(&project).Error)
	})
}
