package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// TokenClaims is the parsed, verified content of a token.
type TokenClaims struct {
	Type      TokenType
	ID        uuid.UUID
	RefreshID uuid.UUID // parent refresh jti; access tokens only
	UserID    uuid.UUID
	ExpiresAt time.Time
}

type TokenPair struct {
	Access  string
	Refresh string
}

// TokenService signs and verifies JWTs and owns the revocation list.
// Refresh tokens are not rotated; they stay valid until expiry or logout.
type TokenService struct {
	db    *gorm.DB
	cfg   *config.Config
	cache RevocationCache
	now   func() time.Time
}

// NewTokenService builds the service. cache may be nil.
func NewTokenService(db *gorm.DB, cfg *config.Config, cache RevocationCache) *TokenService {
	return &TokenService{
		db:    db,
		cfg:   cfg,
		cache: cache,
		now:   time.Now,
	}
}

func (s *TokenService) SigningKey() []byte {
	return []byte(s.cfg.JWTSecret)
}

// IssuePair mints a refresh token, records it as outstanding, and mints an
// access token bound to it.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()
	refreshID := uuid.New()
	refreshExp := now.Add(s.cfg.JWTRefreshExpiry)

	refresh, err := s.sign(jwt.MapClaims{
		"token_type": string(RefreshToken),
		"jti":        refreshID.String(),
		"sub":        user.ID.String(),
		"iat":        now.Unix(),
		"exp":        refreshExp.Unix(),
	})
	if err != nil {
		return nil, err
	}

	record := models.OutstandingToken{
		ID:        refreshID,
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: refreshExp,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	access, err := s.accessFor(user.ID, user.Email, refreshID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) accessFor(userID uuid.UUID, email string, refreshID uuid.UUID) (string, error) {
	now := s.now()
	return s.sign(jwt.MapClaims{
		"token_type": string(AccessToken),
		"jti":        uuid.New().String(),
		"rti":        refreshID.String(),
		"sub":        userID.String(),
		"email":      email,
		"iat":        now.Unix(),
		"exp":        now.Add(s.cfg.JWTAccessExpiry).Unix(),
	})
}

func (s *TokenService) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.SigningKey())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and type of a raw token.
func (s *TokenService) Parse(raw string, want TokenType) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.SigningKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return ClaimsFromMap(claims, want)
}

// ClaimsFromMap converts already verified claims, as handed over by the JWT
// middleware, and checks the token type.
func ClaimsFromMap(claims jwt.MapClaims, want TokenType) (*TokenClaims, error) {
	typ, _ := claims["token_type"].(string)
	if TokenType(typ) != want {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{Type: want}

	var err error
	if out.ID, err = uuidClaim(claims, "jti"); err != nil {
		return nil, ErrInvalidToken
	}
	if out.UserID, err = uuidClaim(claims, "sub"); err != nil {
		return nil, ErrInvalidToken
	}
	if want == AccessToken {
		if out.RefreshID, err = uuidClaim(claims, "rti"); err != nil {
			return nil, ErrInvalidToken
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	out.ExpiresAt = exp.Time
	return out, nil
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	v, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %s claim", key)
	}
	return uuid.Parse(v)
}

// CheckOutstanding confirms a refresh token was handed out by IssuePair and
// its record has not been purged. A validly signed token with no matching
// record is ErrInvalidToken.
func (s *TokenService) CheckOutstanding(ctx context.Context, raw string, claims *TokenClaims) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.OutstandingToken{}).
		Where("id = ? AND token_hash = ?", claims.ID, hashToken(raw)).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if n == 0 {
		return ErrInvalidToken
	}
	return nil
}

// Blacklist adds the refresh token to the revocation list. The unique index
// on token_id turns a concurrent or repeated call into ErrTokenBlacklisted.
func (s *TokenService) Blacklist(ctx context.Context, claims *TokenClaims) error {
	if claims.Type != RefreshToken {
		return ErrInvalidToken
	}

	entry := models.BlacklistedToken{
		ID:        uuid.New(),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTokenBlacklisted
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.cacheRevoke(ctx, claims.ID, claims.ExpiresAt)
	return nil
}

// IsBlacklisted reports whether any of the given token ids is revoked.
func (s *TokenService) IsBlacklisted(ctx context.Context, ids ...uuid.UUID) (bool, error) {
	if s.cache != nil {
		for _, id := range ids {
			revoked, err := s.cache.IsRevoked(ctx, id.String())
			if err != nil {
				slog.Warn("revocation cache lookup failed", "error", err)
				break
			}
			if revoked {
				return true, nil
			}
		}
	}

	var hits []models.BlacklistedToken
	if err := s.db.WithContext(ctx).Where("token_id IN ?", ids).Find(&hits).Error; err != nil {
		return false, fmt.Errorf("failed to query blacklist: %w", err)
	}
	for _, h := range hits {
		s.cacheRevoke(ctx, h.TokenID, h.ExpiresAt)
	}
	return len(hits) > 0, nil
}

func (s *TokenService) cacheRevoke(ctx context.Context, id uuid.UUID, expiresAt time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Revoke(ctx, id.String(), expiresAt); err != nil {
		slog.Warn("revocation cache write failed", "token_id", id, "error", err)
	}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
