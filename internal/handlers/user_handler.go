package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/middleware"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	q := dto.UserListQuery{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", 20),
		Search: c.Query("search"),
	}
	if v := c.QueryInt("role_id", 0); v > 0 {
		roleID := uint(v)
		q.RoleID = &roleID
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		q.IsActive = &active
	}

	page, err := h.userService.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email and password are required",
		})
	}

	user, err := h.userService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.userService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	// Self-deletion would orphan the session mid-request chain.
	if actor := middleware.CurrentUser(c); actor != nil && actor.ID == id {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Users cannot delete themselves",
		})
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
