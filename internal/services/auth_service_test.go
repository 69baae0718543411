package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuth(t *testing.T) (*gorm.DB, *TokenService, *AuthService) {
	t.Helper()
	db := newDB(t)
	tokens := newTokenService(db, nil)
	return db, tokens, newAuthService(db, tokens)
}

func signUpRequest(email string) *dto.SignUpRequest {
	return &dto.SignUpRequest{
		Email:     email,
		FirstName: "Grace",
		LastName:  "Hopper",
		Password:  "cobol-rules",
	}
}

func accessClaims(t *testing.T, tokens *TokenService, raw string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return tokens.SigningKey(), nil },
		jwt.WithTimeFunc(tokens.now))
	require.NoError(t, err)
	return token.Claims.(jwt.MapClaims)
}

func TestAuthService_SignUp_Success(t *testing.T) {
	db, _, svc := setupAuth(t)

	user, err := svc.SignUp(context.Background(), signUpRequest("grace@Example.COM"))
	require.NoError(t, err)

	assert.Equal(t, "grace@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)
	assert.False(t, user.IsSuperuser)
	assert.NotEqual(t, "cobol-rules", user.Password)
	assert.Equal(t, int64(1), countRows(t, db, &models.Profile{}, "user_id = ?", user.ID))
}

func TestAuthService_SignUp_UserAlreadyExists(t *testing.T) {
	db, _, svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, signUpRequest("grace@example.com"))
	assert.Equal(t, []string{msgEmailTaken}, fieldErrors(t, err)["email"])
	assert.Equal(t, int64(1), countRows(t, db, &models.User{}, "email = ?", "grace@example.com"))
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	_, _, svc := setupAuth(t)

	_, err := svc.SignUp(context.Background(), &dto.SignUpRequest{
		Email:     "not-an-email",
		FirstName: "R2D2",
		LastName:  "",
		Password:  "short",
	})
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{validators.MsgInvalidEmail}, fields["email"])
	assert.Equal(t, []string{validators.MsgAlphabetOnly}, fields["first_name"])
	assert.Equal(t, []string{validators.MsgRequired}, fields["last_name"])
	assert.Equal(t, []string{validators.MsgPasswordTooShort}, fields["password"])
}

func TestAuthService_SignUp_PasswordTooLong(t *testing.T) {
	db, _, svc := setupAuth(t)

	req := signUpRequest("grace@example.com")
	req.Password = strings.Repeat("a", 100)

	_, err := svc.SignUp(context.Background(), req)
	assert.Equal(t, []string{validators.MsgPasswordTooLong}, fieldErrors(t, err)["password"])
	assert.Zero(t, countRows(t, db, &models.User{}, "email = ?", "grace@example.com"))
}

func TestAuthService_CreateSuperuser(t *testing.T) {
	_, _, svc := setupAuth(t)

	user, err := svc.CreateSuperuser(context.Background(), signUpRequest("root@example.com"))
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsVerified)
	assert.True(t, user.IsActive)
}

func TestAuthService_SignIn(t *testing.T) {
	db, tokens, svc := setupAuth(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)

	resp, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@example.com", Password: "cobol-rules"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	refresh, err := tokens.Parse(resp.Refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refresh.UserID)
	assert.Equal(t, int64(1), countRows(t, db, &models.OutstandingToken{}, "id = ?", refresh.ID))

	access, err := tokens.Parse(resp.Access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, refresh.ID, access.RefreshID)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "nobody@example.com", Password: "cobol-rules"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@example.com", Password: "cobol-rules"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	_, tokens, svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)
	pair, err := svc.SignIn(ctx, &dto.SignInRequest{Email: "grace@example.com", Password: "cobol-rules"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, accessClaims(t, tokens, refreshed.Access))
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Access})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: pair.Refresh}))

	err = svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: pair.Refresh})
	assert.Equal(t, []string{msgInvalidRefresh + msgTokenBlacklisted}, fieldErrors(t, err)["refresh_token"])

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Refresh})
	assert.ErrorIs(t, err, ErrTokenBlacklisted)

	// Access tokens minted from the revoked refresh token die with it.
	_, err = svc.Authenticate(ctx, accessClaims(t, tokens, pair.Access))
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Authenticate(ctx, accessClaims(t, tokens, refreshed.Access))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout_Invalid(t *testing.T) {
	_, tokens, svc := setupAuth(t)
	ctx := context.Background()

	err := svc.Logout(ctx, &dto.LogoutRequest{})
	assert.Equal(t, []string{validators.MsgRequired}, fieldErrors(t, err)["refresh_token"])

	err = svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: "garbage"})
	assert.Equal(t, []string{msgInvalidRefresh + msgTokenInvalid}, fieldErrors(t, err)["refresh_token"])

	user, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)
	pair, err := tokens.IssuePair(ctx, user)
	require.NoError(t, err)

	tokens.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	err = svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: pair.Refresh})
	assert.Equal(t, []string{msgInvalidRefresh + msgTokenInvalid}, fieldErrors(t, err)["refresh_token"])
}

func TestAuthService_Authenticate_RejectsRefreshToken(t *testing.T) {
	_, tokens, svc := setupAuth(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)
	pair, err := tokens.IssuePair(ctx, user)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, accessClaims(t, tokens, pair.Refresh))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshAndLogout_RequireIssuedToken(t *testing.T) {
	db, tokens, svc := setupAuth(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, signUpRequest("grace@example.com"))
	require.NoError(t, err)

	// Signed with the right key but never recorded as outstanding.
	unissued, err := tokens.sign(jwt.MapClaims{
		"token_type": string(RefreshToken),
		"jti":        uuid.NewString(),
		"sub":        user.ID.String(),
		"iat":        fixedNow.Unix(),
		"exp":        fixedNow.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: unissued})
	assert.ErrorIs(t, err, ErrInvalidToken)

	err = svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: unissued})
	assert.Equal(t, []string{msgInvalidRefresh + msgTokenInvalid}, fieldErrors(t, err)["refresh_token"])
	assert.Zero(t, countRows(t, db, &models.BlacklistedToken{}, "1 = 1"))

	pair, err := tokens.IssuePair(ctx, user)
	require.NoError(t, err)
	claims, err := tokens.Parse(pair.Refresh, RefreshToken)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.OutstandingToken{}, "id = ?", claims.ID).Error)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{Refresh: pair.Refresh})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
