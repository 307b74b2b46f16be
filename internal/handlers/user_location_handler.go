package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

type UserLocationHandler struct {
	assignmentService *services.UserLocationService
}

func NewUserLocationHandler(assignmentService *services.UserLocationService) *UserLocationHandler {
	return &UserLocationHandler{assignmentService: assignmentService}
}

func (h *UserLocationHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ul, err := h.assignmentService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ul)
}

func (h *UserLocationHandler) Create(c *fiber.Ctx) error {
	var req dto.UserLocationCreate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.UserID == 0 || req.LocationID == 0 || req.StartDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "user_id, location_id and start_date are required",
		})
	}

	ul, err := h.assignmentService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ul)
}

func (h *UserLocationHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.UserLocationUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	ul, err := h.assignmentService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ul)
}

func (h *UserLocationHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.assignmentService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Assignment deleted successfully"})
}

// ListByUser returns a user's assignments, active ones only unless
// include_inactive=true.
func (h *UserLocationHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return fail(c, err)
	}

	assignments, err := h.assignmentService.ListByUser(c.UserContext(), userID, c.QueryBool("include_inactive", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(assignments)
}

func (h *UserLocationHandler) ListLocationUsers(c *fiber.Ctx) error {
	locationID, err := pathID(c, "location_id")
	if err != nil {
		return fail(c, err)
	}

	q := dto.LocationUsersQuery{
		Page:            c.QueryInt("page", 1),
		Size:            c.QueryInt("size", 20),
		IncludeInactive: c.QueryBool("include_inactive", false),
		Search:          c.Query("search"),
	}
	if v := c.Query("is_primary"); v != "" {
		primary := v == "true"
		q.IsPrimary = &primary
	}

	page, err := h.assignmentService.ListLocationUsers(c.UserContext(), locationID, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// CheckAvailability is a read-only pre-check before creating an assignment.
func (h *UserLocationHandler) CheckAvailability(c *fiber.Ctx) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return fail(c, err)
	}
	locationID, err := pathID(c, "location_id")
	if err != nil {
		return fail(c, err)
	}

	startDate := time.Now()
	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "start_date must be YYYY-MM-DD",
			})
		}
		startDate = parsed
	}

	result, err := h.assignmentService.CheckAvailability(c.UserContext(), userID, locationID, startDate, c.QueryBool("is_primary", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}
