package dto

import (
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/google/uuid"
)

type SignUpRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SignInResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

// Fixed detail messages returned by the API.
const (
	MsgInvalidBody        = "Invalid request body."
	MsgInvalidCredentials = "No active account found with the given credentials"
	MsgTokenNotValid      = "Given token not valid for any token type"
	MsgNotAuthenticated   = "Authentication credentials were not provided."
	MsgPermissionDenied   = "You do not have permission to perform this action."
	MsgNotFound           = "Not found."
	MsgInternalError      = "Internal server error."
)
