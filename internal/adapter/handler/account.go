package handler

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/service"
)

type AccountHandler struct {
	Accounts *service.Accounts
}

type accountRequest struct {
	Name        string              `json:"name" validate:"required"`
	AccountType *domain.AccountType `json:"account_type" validate:"omitempty,oneof=MONEY OTHER"`
	Currency    *string             `json:"currency"`
	Balance     *decimal.Decimal    `json:"balance"`
}

type accountResponse struct {
	Key              string          `json:"key"`
	Name             string          `json:"name"`
	AccountType      string          `json:"account_type"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceUpdatedAt time.Time       `json:"balance_updated_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

func newAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		Key:              account.Key(),
		Name:             account.Name,
		AccountType:      string(account.AccountType),
		Currency:         account.Currency,
		Balance:          account.Balance,
		BalanceUpdatedAt: account.BalanceUpdatedAt,
		CreatedAt:        account.CreatedAt,
	}
}

func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req accountRequest
	if !parseBody(c, &req) {
		return nil
	}

	account, err := h.Accounts.Create(c.Context(), currentUser(c), service.AccountInput{
		Name:        req.Name,
		AccountType: req.AccountType,
		Currency:    req.Currency,
		Balance:     req.Balance,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(newAccountResponse(account))
}

func (h *AccountHandler) List(c *fiber.Ctx) error {
	accounts, err := h.Accounts.List(c.Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	responses := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, newAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"accounts": responses})
}

func (h *AccountHandler) Get(c *fiber.Ctx) error {
	account, err := h.Accounts.Get(c.Context(), currentUser(c), c.Params("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(newAccountResponse(account))
}

func (h *AccountHandler) Edit(c *fiber.Ctx) error {
	var req accountRequest
	if !parseBody(c, &req) {
		return nil
	}

	account, err := h.Accounts.Edit(c.Context(), currentUser(c), c.Params("key"), service.AccountInput{
		Name:        req.Name,
		AccountType: req.AccountType,
		Currency:    req.Currency,
		Balance:     req.Balance,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(newAccountResponse(account))
}
