package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/h4j4x/expenses/internal/core/security"
	"github.com/h4j4x/expenses/internal/core/service"
)

type AuthHandler struct {
	Users  *service.Users
	Tokens *security.TokenManager
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.Users.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user":  userResponse{Name: user.Name, Email: user.Email},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.Users.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  userResponse{Name: user.Name, Email: user.Email},
		"token": token,
	})
}
