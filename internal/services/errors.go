package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/policy"
)

var (
	ErrInvalidCredentials   = errors.New("no active account found with the given credentials")
	ErrInvalidToken         = errors.New("token is invalid or expired")
	ErrTokenBlacklisted     = errors.New("token is blacklisted")
	ErrNotOpenForAttendance = errors.New("the event is not open for attendance")
	ErrNotFound             = errors.New("not found")

	ErrNotAuthenticated = policy.ErrNotAuthenticated
	ErrPermissionDenied = policy.ErrPermissionDenied
)
