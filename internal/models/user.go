package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can sign in, create events and attend them.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	FirstName   string    `gorm:"size:30;not null" json:"first_name"`
	LastName    string    `gorm:"size:30;not null" json:"last_name"`
	Password    string    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"-"`
	IsVerified  bool      `gorm:"not null;default:false" json:"-"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	Profile     *Profile  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Profile is created together with its User and holds the saved events.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time
}

// SavedEvent is the join row between a profile and an event it bookmarked.
type SavedEvent struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
	Profile   *Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Event     *Event   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
}

func (SavedEvent) TableName() string {
	return "profile_saved_events"
}
