package handlers

import (
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		out[i] = dto.NewCategoryResponse(&categories[i])
	}
	return c.JSON(out)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.categoryService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	category, err := h.categoryService.Create(c.UserContext(), middleware.CurrentUser(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	partial := c.Method() == fiber.MethodPatch
	category, err := h.categoryService.Update(c.UserContext(), middleware.CurrentUser(c), id, &req, partial)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.categoryService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
