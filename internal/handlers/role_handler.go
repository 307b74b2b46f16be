package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) List(c *fiber.Ctx) error {
	page, err := h.roleService.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("size", 20))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *RoleHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	role, err := h.roleService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(role)
}

// Permissions lists the known permission vocabulary, for role editors.
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"permissions": auth.AllPermissions()})
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleCreate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Role name is required",
		})
	}

	role, err := h.roleService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req dto.RoleUpdate
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	role, err := h.roleService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(role)
}

func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.roleService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}
