package handlers

import (
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EventHandler struct {
	eventService      *services.EventService
	attendanceService *services.AttendanceService
	saveService       *services.SaveService
}

func NewEventHandler(
	eventService *services.EventService,
	attendanceService *services.AttendanceService,
	saveService *services.SaveService,
) *EventHandler {
	return &EventHandler{
		eventService:      eventService,
		attendanceService: attendanceService,
		saveService:       saveService,
	}
}

// List supports ?category=&creator=&location=&start_date_gte=&limit=&offset=
func (h *EventHandler) List(c *fiber.Ctx) error {
	filter, err := parseEventFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.eventService.List(c.UserContext(), filter, c.QueryInt("limit", services.DefaultPageLimit), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.EventPageResponse{
		Events: dto.NewEventListResponse(page.Events),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

func parseEventFilter(c *fiber.Ctx) (dto.EventFilter, error) {
	var filter dto.EventFilter
	verr := validators.NewValidationError()

	if v := c.Query("category"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Category = &id
		} else {
			verr.Add("category", validators.MsgInvalidUUID)
		}
	}
	if v := c.Query("creator"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Creator = &id
		} else {
			verr.Add("creator", validators.MsgInvalidUUID)
		}
	}
	if v := c.Query("start_date_gte"); v != "" {
		if d, ok := services.ParseDate(v); ok {
			filter.StartDateGTE = &d
		} else {
			verr.Add("start_date_gte", validators.MsgInvalidDate)
		}
	}
	filter.Location = c.Query("location")

	return filter, verr.OrNil()
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	event, err := h.eventService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewEventResponse(event))
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	event, err := h.eventService.Create(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEventResponse(event))
}

// Update serves both PUT and PATCH; PATCH leaves absent fields untouched.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	partial := c.Method() == fiber.MethodPatch
	event, err := h.eventService.Update(c.UserContext(), middleware.CurrentUser(c), id, &req, partial)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewEventResponse(event))
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.eventService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EventHandler) Attend(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, services.ErrNotOpenForAttendance)
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, services.ErrNotAuthenticated)
	}

	result, err := h.attendanceService.Attend(c.UserContext(), user.ID, id)
	if err != nil {
		return respondError(c, err)
	}

	msg := dto.MsgAttendanceReserved
	if result == services.AttendanceCanceled {
		msg = dto.MsgAttendanceCanceled
	}
	return c.JSON(dto.DetailResponse{Detail: msg})
}

func (h *EventHandler) ToggleSave(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, services.ErrNotAuthenticated)
	}

	action, err := h.saveService.ToggleSave(c.UserContext(), user.ID, id)
	if err != nil {
		return respondError(c, err)
	}

	msg := dto.MsgEventSaved
	if action == services.SaveActionRemoved {
		msg = dto.MsgEventRemoved
	}
	return c.JSON(dto.DetailResponse{Detail: msg})
}
