// Package policy decides who may read or change what. Request-level checks
// run before a handler touches storage; object-level checks run once the
// target event has been loaded.
package policy

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	ErrPermissionDenied = errors.New("permission denied")
)

// Request is the part of an incoming call a permission looks at.
// Actor is nil for anonymous callers.
type Request struct {
	Method string
	Actor  *models.User
}

func (r Request) Authenticated() bool {
	return r.Actor != nil
}

// Safe reports whether the method only reads.
func (r Request) Safe() bool {
	switch r.Method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

type Permission interface {
	HasPermission(r Request) bool
	HasObjectPermission(r Request, e *models.Event) bool
}

type isAuthenticated struct{}

func (isAuthenticated) HasPermission(r Request) bool                         { return r.Authenticated() }
func (isAuthenticated) HasObjectPermission(r Request, _ *models.Event) bool { return true }

type isAuthenticatedOrReadOnly struct{}

func (isAuthenticatedOrReadOnly) HasPermission(r Request) bool {
	return r.Safe() || r.Authenticated()
}
func (isAuthenticatedOrReadOnly) HasObjectPermission(r Request, _ *models.Event) bool { return true }

type isEventCreator struct{}

func (isEventCreator) HasPermission(r Request) bool { return true }

func (isEventCreator) HasObjectPermission(r Request, e *models.Event) bool {
	if r.Safe() {
		return true
	}
	return r.Actor != nil && e != nil && e.CreatorID == r.Actor.ID
}

type isSuperuser struct{}

func (isSuperuser) HasPermission(r Request) bool {
	return r.Actor != nil && r.Actor.IsSuperuser
}
func (isSuperuser) HasObjectPermission(r Request, _ *models.Event) bool { return true }

var (
	IsAuthenticated           Permission = isAuthenticated{}
	IsAuthenticatedOrReadOnly Permission = isAuthenticatedOrReadOnly{}
	IsEventCreator            Permission = isEventCreator{}
	IsSuperuser               Permission = isSuperuser{}

	// EventAccess guards the event resource: anyone reads, only the creator changes.
	EventAccess = All(IsAuthenticatedOrReadOnly, IsEventCreator)
)

type all []Permission

// All grants access only when every permission does.
func All(perms ...Permission) Permission {
	return all(perms)
}

func (a all) HasPermission(r Request) bool {
	for _, p := range a {
		if !p.HasPermission(r) {
			return false
		}
	}
	return true
}

func (a all) HasObjectPermission(r Request, e *models.Event) bool {
	for _, p := range a {
		if !p.HasObjectPermission(r, e) {
			return false
		}
	}
	return true
}

// Check runs the request-level part of p. Anonymous callers get
// ErrNotAuthenticated, everyone else ErrPermissionDenied.
func Check(p Permission, r Request) error {
	if p.HasPermission(r) {
		return nil
	}
	if !r.Authenticated() {
		return ErrNotAuthenticated
	}
	return ErrPermissionDenied
}

// CheckObject runs both parts of p against e.
func CheckObject(p Permission, r Request, e *models.Event) error {
	if err := Check(p, r); err != nil {
		return err
	}
	if !p.HasObjectPermission(r, e) {
		return ErrPermissionDenied
	}
	return nil
}
