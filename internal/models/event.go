package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusCreated   EventStatus = "created"
	EventStatusCanceled  EventStatus = "canceled"
	EventStatusOnGoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

var EventStatuses = []EventStatus{
	EventStatusCreated,
	EventStatusCanceled,
	EventStatusOnGoing,
	EventStatusCompleted,
}

func (s EventStatus) Valid() bool {
	for _, st := range EventStatuses {
		if s == st {
			return true
		}
	}
	return false
}

const (
	MinCapacity = 0
	MaxCapacity = 10_000

	MsgStartAfterEnd = "The start date must be before the end date."
)

type EventCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
}

func (EventCategory) TableName() string {
	return "event_categories"
}

type Event struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name        string         `gorm:"size:255;not null"`
	Status      EventStatus    `gorm:"size:25;not null;default:'created'"`
	Location    string         `gorm:"size:255;not null;index"`
	Capacity    int            `gorm:"not null"`
	Description string         `gorm:"type:text;not null"`
	StartDate   time.Time      `gorm:"type:date;not null;index"`
	EndDate     time.Time      `gorm:"type:date;not null"`
	CreatedAt   time.Time      `gorm:"index"`
	Creator     *User          `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE;"`
	Category    *EventCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;"`
}

// Validate checks the date range. Zero dates are skipped so a partially
// populated event can be checked once both sides are known.
func (e *Event) Validate() error {
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return nil
	}
	if !e.StartDate.Before(e.EndDate) {
		return validators.FieldError("start_date", MsgStartAfterEnd)
	}
	return nil
}

// Attendance links a user to an event they reserved a place for.
type Attendance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_user_event_attendance"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_user_event_attendance;index"`
	Timestamp time.Time `gorm:"autoCreateTime"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Event     *Event    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
}

func (Attendance) TableName() string {
	return "event_attendances"
}

// DateOnly truncates t to midnight UTC, the representation used for event dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
