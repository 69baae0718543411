package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// EventRequest is the body of create, replace and partial update calls.
// Pointer fields distinguish "absent" from "zero" for PATCH.
type EventRequest struct {
	Category    *string `json:"category"`
	Name        *string `json:"name"`
	Status      *string `json:"status"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type EventFilter struct {
	Category     *uuid.UUID
	Creator      *uuid.UUID
	Location     string
	StartDateGTE *time.Time
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

func NewCategoryResponse(c *models.EventCategory) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

type EventResponse struct {
	ID          uuid.UUID         `json:"id"`
	Creator     *UserResponse     `json:"creator"`
	Category    *CategoryResponse `json:"category"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Location    string            `json:"location"`
	Capacity    int               `json:"capacity"`
	Description string            `json:"description"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Status:      string(e.Status),
		Location:    e.Location,
		Capacity:    e.Capacity,
		Description: e.Description,
		StartDate:   e.StartDate.Format(DateLayout),
		EndDate:     e.EndDate.Format(DateLayout),
		CreatedAt:   e.CreatedAt,
	}
	if e.Creator != nil {
		u := NewUserResponse(e.Creator)
		resp.Creator = &u
	}
	if e.Category != nil {
		c := NewCategoryResponse(e.Category)
		resp.Category = &c
	}
	return resp
}

func NewEventListResponse(events []models.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = NewEventResponse(&events[i])
	}
	return out
}

const (
	MsgNotOpenForAttendance = "The event is not open for attendance."
	MsgAttendanceReserved   = "Attendance reserved."
	MsgAttendanceCanceled   = "Attendance canceled."
	MsgEventSaved           = "Event saved successfully."
	MsgEventRemoved         = "Event removed successfully."
)

type EventPageResponse struct {
	Events []EventResponse `json:"events"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
