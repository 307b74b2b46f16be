package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/middleware"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

type ItemHandler struct {
	itemService *services.ItemService
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, err := h.itemService.List(c.UserContext(), middleware.CurrentUser(c), c.QueryInt("page", 1), c.QueryInt("size", 20))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	item, err := h.itemService.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req dto.ItemCreate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Title is required",
		})
	}

	item, err := h.itemService.Create(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.ItemUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	item, err := h.itemService.Update(c.UserContext(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.itemService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}
