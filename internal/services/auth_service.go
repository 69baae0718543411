package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgEmailTaken       = "user with this email already exists."
	msgInvalidRefresh   = "Invalid refresh token: "
	msgTokenInvalid     = "Token is invalid or expired"
	msgTokenBlacklisted = "Token is blacklisted"
	signInDummyPassword = "not-a-real-password"
)

type AuthService struct {
	db       *gorm.DB
	tokens   *TokenService
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(db *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{
		db:       db,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignUp creates an active, unverified user together with its profile.
func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*models.User, error) {
	return s.createUser(ctx, req, false)
}

// CreateSuperuser provisions an active, verified superuser.
func (s *AuthService) CreateSuperuser(ctx context.Context, req *dto.SignUpRequest) (*models.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *AuthService) createUser(ctx context.Context, req *dto.SignUpRequest, superuser bool) (*models.User, error) {
	email := validators.NormalizeEmail(req.Email)

	verr := validators.NewValidationError()
	if msg := validators.Email(email); msg != "" {
		verr.Add("email", msg)
	}
	if msg := validators.PersonName(req.FirstName); msg != "" {
		verr.Add("first_name", msg)
	}
	if msg := validators.PersonName(req.LastName); msg != "" {
		verr.Add("last_name", msg)
	}
	if msg := validators.Password(req.Password); msg != "" {
		verr.Add("password", msg)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	db := s.db.WithContext(ctx)

	var taken int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken > 0 {
		return nil, validators.FieldError("email", msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, validators.FieldError("password", validators.MsgPasswordTooLong)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    string(hash),
		IsActive:    true,
		IsVerified:  superuser,
		IsSuperuser: superuser,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{ID: uuid.New(), UserID: user.ID}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validators.FieldError("email", msgEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// SignIn returns a token pair. Unknown email, wrong password and inactive
// account all produce ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.SignInResponse, error) {
	email := validators.NormalizeEmail(req.Email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		// Burn the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, &user)
	if err != nil {
		return nil, err
	}

	return &dto.SignInResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    dto.NewUserResponse(&user),
	}, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(signInDummyPassword), s.hashCost)
	})
	return s.dummyHash
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// itself is reused, so the blacklist check is what ends its life.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	claims, err := s.tokens.Parse(req.Refresh, RefreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.CheckOutstanding(ctx, req.Refresh, claims); err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.accessFor(user.ID, user.Email, claims.ID)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access}, nil
}

// Logout blacklists the refresh token. A malformed, expired, unissued or
// already blacklisted token is a validation error on refresh_token.
func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if req.RefreshToken == "" {
		return validators.FieldError("refresh_token", validators.MsgRequired)
	}

	claims, err := s.tokens.Parse(req.RefreshToken, RefreshToken)
	if err != nil {
		return validators.FieldError("refresh_token", msgInvalidRefresh+msgTokenInvalid)
	}
	if err := s.tokens.CheckOutstanding(ctx, req.RefreshToken, claims); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return validators.FieldError("refresh_token", msgInvalidRefresh+msgTokenInvalid)
		}
		return err
	}

	revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return validators.FieldError("refresh_token", msgInvalidRefresh+msgTokenBlacklisted)
	}

	if err := s.tokens.Blacklist(ctx, claims); err != nil {
		if errors.Is(err, ErrTokenBlacklisted) {
			return validators.FieldError("refresh_token", msgInvalidRefresh+msgTokenBlacklisted)
		}
		return err
	}
	return nil
}

// Authenticate resolves verified access token claims to an active user.
// The token is rejected once the refresh token it came from is blacklisted.
func (s *AuthService) Authenticate(ctx context.Context, raw jwt.MapClaims) (*models.User, error) {
	claims, err := ClaimsFromMap(raw, AccessToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID, claims.RefreshID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return s.activeUser(ctx, claims.UserID)
}

func (s *AuthService) activeUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
