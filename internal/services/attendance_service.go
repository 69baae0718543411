package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceResult tells which way an attend toggle went.
type AttendanceResult int

const (
	AttendanceReserved AttendanceResult = iota + 1
	AttendanceCanceled
)

func (r AttendanceResult) String() string {
	switch r {
	case AttendanceReserved:
		return "reserved"
	case AttendanceCanceled:
		return "canceled"
	}
	return "unknown"
}

type AttendanceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db, now: time.Now}
}

// Attend toggles the user's attendance of an event that is open: it starts
// after today and has a free place.
//
// The event row is locked for the whole transaction, so the capacity count and
// the toggle cannot interleave with another toggle on the same event. A full
// event is closed to everyone, including current attendees.
func (s *AttendanceService) Attend(ctx context.Context, userID, eventID uuid.UUID) (AttendanceResult, error) {
	var result AttendanceResult
	today := models.DateOnly(s.now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND start_date > ?", eventID, today).
			First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOpenForAttendance
		}
		if err != nil {
			return fmt.Errorf("failed to lock event: %w", err)
		}

		var attendees int64
		if err := tx.Model(&models.Attendance{}).Where("event_id = ?", eventID).Count(&attendees).Error; err != nil {
			return fmt.Errorf("failed to count attendees: %w", err)
		}
		if attendees >= int64(event.Capacity) {
			return ErrNotOpenForAttendance
		}

		del := tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&models.Attendance{})
		if del.Error != nil {
			return fmt.Errorf("failed to cancel attendance: %w", del.Error)
		}
		if del.RowsAffected > 0 {
			result = AttendanceCanceled
			return nil
		}

		attendance := models.Attendance{
			ID:      uuid.New(),
			UserID:  userID,
			EventID: eventID,
		}
		if err := tx.Create(&attendance).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrNotOpenForAttendance
			}
			return fmt.Errorf("failed to reserve attendance: %w", err)
		}
		result = AttendanceReserved
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// AttendeeCount returns the live number of attendance rows for an event.
func (s *AttendanceService) AttendeeCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Attendance{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

// IsAttending reports whether the user holds a place at the event.
func (s *AttendanceService) IsAttending(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	return n > 0, err
}
