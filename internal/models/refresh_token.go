package models

import (
	"time"

	"github.com/google/uuid"
)

// OutstandingToken records every refresh token handed out. ID is the token's jti.
type OutstandingToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

// BlacklistedToken is the revocation list. TokenID holds a refresh jti and is
// unique, so a token can only ever be blacklisted once.
type BlacklistedToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TokenID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"token_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
