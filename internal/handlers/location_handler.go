package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) List(c *fiber.Ctx) error {
	q := dto.LocationListQuery{
		Page:       c.QueryInt("page", 1),
		Size:       c.QueryInt("size", 20),
		Search:     c.Query("search"),
		Prefecture: c.Query("prefecture"),
	}
	if v := c.Query("type"); v != "" {
		t := models.LocationType(v)
		q.Type = &t
	}
	if v := c.QueryInt("parent_id", 0); v > 0 {
		parentID := uint(v)
		q.ParentID = &parentID
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		q.IsActive = &active
	}

	page, err := h.locationService.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *LocationHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	loc, err := h.locationService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(loc)
}

func (h *LocationHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Location code is required",
		})
	}

	loc, err := h.locationService.GetByCode(c.UserContext(), code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(loc)
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req dto.LocationCreate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Name == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Name and code are required",
		})
	}

	loc, err := h.locationService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.LocationUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	loc, err := h.locationService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(loc)
}

func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	loc, err := h.locationService.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(loc)
}
