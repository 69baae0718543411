package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func newTokenService(db *gorm.DB, cache RevocationCache) *TokenService {
	s := NewTokenService(db, testConfig(), cache)
	s.now = func() time.Time { return fixedNow }
	return s
}

func newAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	s := NewAuthService(db, tokens)
	s.hashCost = bcrypt.MinCost
	return s
}

func newAttendanceService(db *gorm.DB) *AttendanceService {
	s := NewAttendanceService(db)
	s.now = func() time.Time { return fixedNow }
	return s
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  string(hash),
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{ID: uuid.New(), UserID: user.ID}).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.EventCategory {
	t.Helper()
	c := &models.EventCategory{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

// seedEvent creates an event starting daysFromNow days after fixedNow.
func seedEvent(t *testing.T, db *gorm.DB, creator *models.User, category *models.EventCategory, capacity, daysFromNow int) *models.Event {
	t.Helper()
	start := models.DateOnly(fixedNow).AddDate(0, 0, daysFromNow)
	e := &models.Event{
		ID:          uuid.New(),
		CreatorID:   creator.ID,
		CategoryID:  category.ID,
		Name:        "Go meetup",
		Status:      models.EventStatusCreated,
		Location:    "Istanbul",
		Capacity:    capacity,
		Description: "Talks and pizza",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 1),
	}
	require.NoError(t, db.Omit("Creator", "Category").Create(e).Error)
	return e
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func newDB(t *testing.T) *gorm.DB {
	return testdb.New(t)
}

type mockRevocationCache struct {
	mock.Mock
}

func (m *mockRevocationCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationCache) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
