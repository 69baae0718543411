package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService manages event categories. Reads are public; changes are
// reserved to superusers.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.EventCategory, error) {
	var categories []models.EventCategory
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.EventCategory, error) {
	return findCategory(s.db.WithContext(ctx), id)
}

func findCategory(db *gorm.DB, id uuid.UUID) (*models.EventCategory, error) {
	var category models.EventCategory
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Create(ctx context.Context, actor *models.User, req *dto.CategoryRequest) (*models.EventCategory, error) {
	if err := policy.Check(policy.IsSuperuser, policy.Request{Method: http.MethodPost, Actor: actor}); err != nil {
		return nil, err
	}

	category := models.EventCategory{ID: uuid.New()}
	if err := applyCategoryRequest(&category, req, false); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.CategoryRequest, partial bool) (*models.EventCategory, error) {
	if err := policy.Check(policy.IsSuperuser, policy.Request{Method: http.MethodPut, Actor: actor}); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	category, err := findCategory(db, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategoryRequest(category, req, partial); err != nil {
		return nil, err
	}
	if err := db.Model(category).Select("Name", "Description").Updates(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes the category and every event filed under it.
func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if err := policy.Check(policy.IsSuperuser, policy.Request{Method: http.MethodDelete, Actor: actor}); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, id)
		if err != nil {
			return err
		}

		var eventIDs []uuid.UUID
		if err := tx.Model(&models.Event{}).Where("category_id = ?", category.ID).Pluck("id", &eventIDs).Error; err != nil {
			return fmt.Errorf("failed to load category events: %w", err)
		}
		if err := deleteEvents(tx, eventIDs); err != nil {
			return err
		}

		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func applyCategoryRequest(c *models.EventCategory, req *dto.CategoryRequest, partial bool) error {
	verr := validators.NewValidationError()

	if req.Name == nil {
		if !partial {
			verr.Add("name", validators.MsgRequired)
		}
	} else if msg := requiredText(*req.Name, maxNameLength); msg != "" {
		verr.Add("name", msg)
	} else {
		c.Name = *req.Name
	}

	if req.Description != nil {
		c.Description = req.Description
	} else if !partial {
		c.Description = nil
	}

	return verr.OrNil()
}
