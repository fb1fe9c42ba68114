package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kirodsllc/inventario-contable/internal/application/auth"
	"github.com/kirodsllc/inventario-contable/internal/application/dto"
)

// AuthHandler maneja login.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login valida credenciales y devuelve token + usuario.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	resp, err := h.uc.Login(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
