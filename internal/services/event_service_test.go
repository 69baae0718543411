package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEventRequest(categoryID uuid.UUID) *dto.EventRequest {
	return &dto.EventRequest{
		Category:    strPtr(categoryID.String()),
		Name:        strPtr("GopherCon"),
		Location:    strPtr("Berlin"),
		Capacity:    intPtr(100),
		Description: strPtr("Annual Go conference"),
		StartDate:   strPtr("2026-06-01"),
		EndDate:     strPtr("2026-06-03"),
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *validators.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestEventService_Create(t *testing.T) {
	db := newDB(t)
	creator := seedUser(t, db, "creator@example.com")
	category := seedCategory(t, db, "Tech")
	svc := NewEventService(db)

	event, err := svc.Create(context.Background(), creator, validEventRequest(category.ID))
	require.NoError(t, err)

	assert.Equal(t, creator.ID, event.CreatorID)
	assert.Equal(t, models.EventStatusCreated, event.Status)
	assert.Equal(t, "2026-06-01", event.StartDate.Format(dto.DateLayout))
	require.NotNil(t, event.Creator)
	require.NotNil(t, event.Category)
	assert.Equal(t, "Tech", event.Category.Name)
}

func TestEventService_Create_Anonymous(t *testing.T) {
	db := newDB(t)
	category := seedCategory(t, db, "Tech")

	_, err := NewEventService(db).Create(context.Background(), nil, validEventRequest(category.ID))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEventService_Create_Validation(t *testing.T) {
	db := newDB(t)
	creator := seedUser(t, db, "creator@example.com")
	category := seedCategory(t, db, "Tech")
	svc := NewEventService(db)

	tests := []struct {
		name   string
		mutate func(r *dto.EventRequest)
		field  string
		msg    string
	}{
		{"start after end", func(r *dto.EventRequest) { r.StartDate = strPtr("2026-06-05") }, "start_date", models.MsgStartAfterEnd},
		{"start equals end", func(r *dto.EventRequest) { r.EndDate = strPtr("2026-06-01") }, "start_date", models.MsgStartAfterEnd},
		{"negative capacity", func(r *dto.EventRequest) { r.Capacity = intPtr(-1) }, "capacity", validators.MinValue(0)},
		{"capacity too large", func(r *dto.EventRequest) { r.Capacity = intPtr(10001) }, "capacity", validators.MaxValue(10000)},
		{"bad status", func(r *dto.EventRequest) { r.Status = strPtr("postponed") }, "status", validators.InvalidChoice("postponed")},
		{"bad date", func(r *dto.EventRequest) { r.EndDate = strPtr("03/06/2026") }, "end_date", validators.MsgInvalidDate},
		{"blank name", func(r *dto.EventRequest) { r.Name = strPtr("  ") }, "name", validators.MsgBlank},
		{"bad category id", func(r *dto.EventRequest) { r.Category = strPtr("nope") }, "category", validators.MsgInvalidUUID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventRequest(category.ID)
			tt.mutate(req)

			_, err := svc.Create(context.Background(), creator, req)
			assert.Equal(t, []string{tt.msg}, fieldErrors(t, err)[tt.field])
		})
	}

	missing := uuid.New()
	req := validEventRequest(category.ID)
	req.Category = strPtr(missing.String())
	_, err := svc.Create(context.Background(), creator, req)
	assert.Equal(t, []string{validators.InvalidPK(missing.String())}, fieldErrors(t, err)["category"])

	assert.Zero(t, countRows(t, db, &models.Event{}, "1 = 1"))
}

func TestEventService_Create_MissingFields(t *testing.T) {
	db := newDB(t)
	creator := seedUser(t, db, "creator@example.com")

	_, err := NewEventService(db).Create(context.Background(), creator, &dto.EventRequest{})
	fields := fieldErrors(t, err)
	for _, f := range []string{"category", "name", "location", "capacity", "description", "start_date", "end_date"} {
		assert.Equal(t, []string{validators.MsgRequired}, fields[f], f)
	}
	assert.NotContains(t, fields, "status")
}

func TestEventService_Update(t *testing.T) {
	db := newDB(t)
	creator := seedUser(t, db, "creator@example.com")
	other := seedUser(t, db, "other@example.com")
	category := seedCategory(t, db, "Tech")
	event := seedEvent(t, db, creator, category, 10, 5)
	svc := NewEventService(db)
	ctx := context.Background()

	t.Run("partial update by creator", func(t *testing.T) {
		updated, err := svc.Update(ctx, creator, event.ID, &dto.EventRequest{
			Name:   strPtr("Renamed"),
			Status: strPtr("ongoing"),
		}, true)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, models.EventStatusOnGoing, updated.Status)
		assert.Equal(t, 10, updated.Capacity)
		assert.Equal(t, creator.ID, updated.CreatorID)
	})

	t.Run("partial update checks merged dates", func(t *testing.T) {
		late := event.EndDate.AddDate(0, 0, 2).Format(dto.DateLayout)
		_, err := svc.Update(ctx, creator, event.ID, &dto.EventRequest{StartDate: strPtr(late)}, true)
		assert.Equal(t, []string{models.MsgStartAfterEnd}, fieldErrors(t, err)["start_date"])
	})

	t.Run("full update requires all fields", func(t *testing.T) {
		_, err := svc.Update(ctx, creator, event.ID, &dto.EventRequest{Name: strPtr("x")}, false)
		assert.Contains(t, fieldErrors(t, err), "capacity")
	})

	t.Run("full update", func(t *testing.T) {
		updated, err := svc.Update(ctx, creator, event.ID, validEventRequest(category.ID), false)
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", updated.Name)
		assert.Equal(t, 100, updated.Capacity)
	})

	t.Run("non-creator is denied", func(t *testing.T) {
		_, err := svc.Update(ctx, other, event.ID, &dto.EventRequest{Name: strPtr("Hijacked")}, true)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("anonymous is not authenticated", func(t *testing.T) {
		_, err := svc.Update(ctx, nil, event.ID, &dto.EventRequest{Name: strPtr("Hijacked")}, true)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := svc.Update(ctx, creator, uuid.New(), &dto.EventRequest{}, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	stored, err := svc.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Hijacked", stored.Name)
}

func TestEventService_Delete(t *testing.T) {
	db := newDB(t)
	creator := seedUser(t, db, "creator@example.com")
	other := seedUser(t, db, "other@example.com")
	event := seedEvent(t, db, creator, seedCategory(t, db, "Tech"), 10, 5)
	ctx := context.Background()

	_, err := newAttendanceService(db).Attend(ctx, other.ID, event.ID)
	require.NoError(t, err)
	_, err = NewSaveService(db).ToggleSave(ctx, other.ID, event.ID)
	require.NoError(t, err)

	svc := NewEventService(db)
	assert.ErrorIs(t, svc.Delete(ctx, other, event.ID), ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(ctx, nil, event.ID), ErrNotAuthenticated)

	require.NoError(t, svc.Delete(ctx, creator, event.ID))
	assert.Zero(t, countRows(t, db, &models.Event{}, "id = ?", event.ID))
	assert.Zero(t, countRows(t, db, &models.Attendance{}, "event_id = ?", event.ID))
	assert.Zero(t, countRows(t, db, &models.SavedEvent{}, "event_id = ?", event.ID))

	assert.ErrorIs(t, svc.Delete(ctx, creator, event.ID), ErrNotFound)
}

func TestEventService_List(t *testing.T) {
	db := newDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	tech := seedCategory(t, db, "Tech")
	music := seedCategory(t, db, "Music")

	e1 := seedEvent(t, db, alice, tech, 10, 5)
	e2 := seedEvent(t, db, alice, music, 10, 20)
	e3 := seedEvent(t, db, bob, tech, 10, 30)
	require.NoError(t, db.Model(e3).Update("location", "Ankara Hall").Error)
	for i, e := range []*models.Event{e1, e2, e3} {
		created := fixedNow.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Model(e).Update("created_at", created).Error)
	}

	svc := NewEventService(db)
	ctx := context.Background()
	ids := func(p *EventPage) []uuid.UUID {
		out := make([]uuid.UUID, len(p.Events))
		for i, e := range p.Events {
			out[i] = e.ID
		}
		return out
	}

	page, err := svc.List(ctx, dto.EventFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Equal(t, []uuid.UUID{e3.ID, e2.ID, e1.ID}, ids(page))

	page, err = svc.List(ctx, dto.EventFilter{Category: &tech.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{e3.ID, e1.ID}, ids(page))

	page, err = svc.List(ctx, dto.EventFilter{Creator: &alice.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{e2.ID, e1.ID}, ids(page))

	page, err = svc.List(ctx, dto.EventFilter{Location: "ankara"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{e3.ID}, ids(page))

	// Wildcards in the filter are matched literally.
	for _, loc := range []string{"%", "_", `\`} {
		page, err = svc.List(ctx, dto.EventFilter{Location: loc}, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, page.Total, loc)
		assert.Empty(t, page.Events, loc)
	}
	require.NoError(t, db.Model(e2).Update("location", "Room 100%_B").Error)
	page, err = svc.List(ctx, dto.EventFilter{Location: "100%_b"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{e2.ID}, ids(page))

	from := fixedNow.AddDate(0, 0, 20)
	page, err = svc.List(ctx, dto.EventFilter{StartDateGTE: &from}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{e3.ID, e2.ID}, ids(page))

	page, err = svc.List(ctx, dto.EventFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, []uuid.UUID{e2.ID}, ids(page))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		limit, offset     int
		wantLim, wantOffs int
	}{
		{0, 0, DefaultPageLimit, 0},
		{500, 10, MaxPageLimit, 10},
		{5, -1, 5, 0},
	}
	for _, tt := range tests {
		l, o := ClampPage(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLim, l)
		assert.Equal(t, tt.wantOffs, o)
	}
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2026-06-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("2026-06-01T18:30:00+00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate("June 1st")
	assert.False(t, ok)
}
