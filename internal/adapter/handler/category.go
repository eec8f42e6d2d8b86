package handler

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/service"
)

type CategoryHandler struct {
	Categories *service.Categories
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type categoryResponse struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newCategoryResponse(category *domain.Category) categoryResponse {
	return categoryResponse{Key: category.Key(), Name: category.Name, CreatedAt: category.CreatedAt}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	category, err := h.Categories.Create(c.Context(), currentUser(c), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(newCategoryResponse(category))
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.Categories.List(c.Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	responses := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, newCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"categories": responses})
}

func (h *CategoryHandler) Edit(c *fiber.Ctx) error {
	var req categoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	category, err := h.Categories.Edit(c.Context(), currentUser(c), c.Params("key"), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(newCategoryResponse(category))
}
