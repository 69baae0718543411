package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	maxNameLength = 255
)

// EventPage is one window of the filtered event list.
type EventPage struct {
	Events []models.Event
	Total  int64
	Limit  int
	Offset int
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

func withEventRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator").Preload("Category")
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// date at midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dto.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.DateOnly(t), true
	}
	return time.Time{}, false
}

// ClampPage normalizes list paging parameters.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).Scopes(withEventRelations).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *EventService) List(ctx context.Context, filter dto.EventFilter, limit, offset int) (*EventPage, error) {
	limit, offset = ClampPage(limit, offset)

	filtered := func(db *gorm.DB) *gorm.DB {
		if filter.Category != nil {
			db = db.Where("category_id = ?", *filter.Category)
		}
		if filter.Creator != nil {
			db = db.Where("creator_id = ?", *filter.Creator)
		}
		if filter.Location != "" {
			db = db.Where(`LOWER(location) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(filter.Location))+"%")
		}
		if filter.StartDateGTE != nil {
			db = db.Where("start_date >= ?", models.DateOnly(*filter.StartDateGTE))
		}
		return db
	}
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Event{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	var events []models.Event
	err := db.Scopes(filtered, withEventRelations).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &EventPage{Events: events, Total: total, Limit: limit, Offset: offset}, nil
}

// Create stores a new event owned by actor.
func (s *EventService) Create(ctx context.Context, actor *models.User, req *dto.EventRequest) (*models.Event, error) {
	if err := policy.Check(policy.EventAccess, policy.Request{Method: http.MethodPost, Actor: actor}); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	event := models.Event{
		ID:        uuid.New(),
		CreatorID: actor.ID,
		Status:    models.EventStatusCreated,
	}
	if err := applyEventRequest(db, &event, req, false); err != nil {
		return nil, err
	}

	if err := db.Omit("Creator", "Category").Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return s.Get(ctx, event.ID)
}

// Update replaces (partial=false) or patches the event. Only the creator may
// change it, and the date range is checked against the merged state.
func (s *EventService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.EventRequest, partial bool) (*models.Event, error) {
	method := http.MethodPut
	if partial {
		method = http.MethodPatch
	}
	r := policy.Request{Method: method, Actor: actor}
	if err := policy.Check(policy.EventAccess, r); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load event: %w", err)
		}
		if err := policy.CheckObject(policy.EventAccess, r, &event); err != nil {
			return err
		}

		if err := applyEventRequest(tx, &event, req, partial); err != nil {
			return err
		}

		return tx.Model(&event).
			Select("CategoryID", "Name", "Status", "Location", "Capacity", "Description", "StartDate", "EndDate").
			Updates(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the event together with its attendance and saved rows.
func (s *EventService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	r := policy.Request{Method: http.MethodDelete, Actor: actor}
	if err := policy.Check(policy.EventAccess, r); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load event: %w", err)
		}
		if err := policy.CheckObject(policy.EventAccess, r, &event); err != nil {
			return err
		}
		return deleteEvents(tx, []uuid.UUID{event.ID})
	})
}

func deleteEvents(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("event_id IN ?", ids).Delete(&models.Attendance{}).Error; err != nil {
		return fmt.Errorf("failed to delete attendances: %w", err)
	}
	if err := tx.Where("event_id IN ?", ids).Delete(&models.SavedEvent{}).Error; err != nil {
		return fmt.Errorf("failed to delete saved events: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Event{}).Error; err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}

// applyEventRequest validates req and copies it onto event. In a full update
// every writable field except status must be present.
func applyEventRequest(db *gorm.DB, event *models.Event, req *dto.EventRequest, partial bool) error {
	verr := validators.NewValidationError()
	missing := func(field string) {
		if !partial {
			verr.Add(field, validators.MsgRequired)
		}
	}

	if req.Name == nil {
		missing("name")
	} else if msg := requiredText(*req.Name, maxNameLength); msg != "" {
		verr.Add("name", msg)
	} else {
		event.Name = *req.Name
	}

	if req.Location == nil {
		missing("location")
	} else if msg := requiredText(*req.Location, maxNameLength); msg != "" {
		verr.Add("location", msg)
	} else {
		event.Location = *req.Location
	}

	if req.Description == nil {
		missing("description")
	} else if msg := requiredText(*req.Description, 0); msg != "" {
		verr.Add("description", msg)
	} else {
		event.Description = *req.Description
	}

	if req.Status != nil {
		if st := models.EventStatus(*req.Status); st.Valid() {
			event.Status = st
		} else {
			verr.Add("status", validators.InvalidChoice(*req.Status))
		}
	}

	switch {
	case req.Capacity == nil:
		missing("capacity")
	case *req.Capacity < models.MinCapacity:
		verr.Add("capacity", validators.MinValue(models.MinCapacity))
	case *req.Capacity > models.MaxCapacity:
		verr.Add("capacity", validators.MaxValue(models.MaxCapacity))
	default:
		event.Capacity = *req.Capacity
	}

	if req.StartDate == nil {
		missing("start_date")
	} else if d, ok := ParseDate(*req.StartDate); ok {
		event.StartDate = d
	} else {
		verr.Add("start_date", validators.MsgInvalidDate)
	}

	if req.EndDate == nil {
		missing("end_date")
	} else if d, ok := ParseDate(*req.EndDate); ok {
		event.EndDate = d
	} else {
		verr.Add("end_date", validators.MsgInvalidDate)
	}

	if req.Category == nil {
		missing("category")
	} else if id, err := uuid.Parse(*req.Category); err != nil {
		verr.Add("category", validators.MsgInvalidUUID)
	} else {
		var n int64
		if err := db.Model(&models.EventCategory{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if n == 0 {
			verr.Add("category", validators.InvalidPK(*req.Category))
		} else {
			event.CategoryID = id
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return event.Validate()
}

// requiredText checks a non-blank string; max 0 means unbounded.
func requiredText(s string, max int) string {
	if strings.TrimSpace(s) == "" {
		return validators.MsgBlank
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return validators.MaxLength(max)
	}
	return ""
}
