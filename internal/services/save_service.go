package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveAction string

const (
	SaveActionSaved   SaveAction = "saved"
	SaveActionRemoved SaveAction = "removed"
)

type SaveService struct {
	db *gorm.DB
}

func NewSaveService(db *gorm.DB) *SaveService {
	return &SaveService{db: db}
}

// ToggleSave adds the event to the user's saved set, or removes it when it is
// already there. The profile row is locked so each caller sees its own transition.
func (s *SaveService) ToggleSave(ctx context.Context, userID, eventID uuid.UUID) (SaveAction, error) {
	var action SaveAction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock profile: %w", err)
		}

		var exists int64
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to load event: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		del := tx.Where("profile_id = ? AND event_id = ?", profile.ID, eventID).Delete(&models.SavedEvent{})
		if del.Error != nil {
			return fmt.Errorf("failed to remove saved event: %w", del.Error)
		}
		if del.RowsAffected > 0 {
			action = SaveActionRemoved
			return nil
		}

		saved := models.SavedEvent{ProfileID: profile.ID, EventID: eventID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error; err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		action = SaveActionSaved
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// SavedEvents lists the events in a user's saved set, most recently saved first.
func (s *SaveService) SavedEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	db := s.db.WithContext(ctx)

	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var events []models.Event
	err := db.Scopes(withEventRelations).
		Select("events.*").
		Joins("JOIN profile_saved_events ON profile_saved_events.event_id = events.id").
		Where("profile_saved_events.profile_id = ?", profile.ID).
		Order("profile_saved_events.created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load saved events: %w", err)
	}
	return events, nil
}
