package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	saves *SaveService
}

func NewUserService(db *gorm.DB, saves *SaveService) *UserService {
	return &UserService{db: db, saves: saves}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// SavedEvents lists the events bookmarked by the user.
func (s *UserService) SavedEvents(ctx context.Context, id uuid.UUID) ([]models.Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.saves.SavedEvents(ctx, id)
}
