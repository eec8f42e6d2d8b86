package handler

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/keys"
	"github.com/h4j4x/expenses/internal/core/service"
)

type TransactionHandler struct {
	Ledger   *service.Ledger
	Accounts *service.Accounts
}

type transactionRequest struct {
	Notes       string          `json:"notes" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryKey *string         `json:"category_key"`
}

type transactionResponse struct {
	Key         string          `json:"key"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	CreationWay string          `json:"creation_way"`
	Status      string          `json:"status"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newTransactionResponse(transaction *domain.Transaction) transactionResponse {
	return transactionResponse{
		Key:         transaction.Key(),
		Amount:      transaction.Amount,
		Notes:       transaction.Notes,
		CreationWay: string(transaction.CreationWay),
		Status:      string(transaction.Status),
		ConfirmedAt: transaction.ConfirmedAt,
		CreatedAt:   transaction.CreatedAt,
	}
}

// Create appends a manual ledger entry to the account addressed by the URL
// key. Status and creation way are never taken from the client: user entries
// always start PENDING/MANUAL.
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req transactionRequest
	if !parseBody(c, &req) {
		return nil
	}
	user := currentUser(c)

	account, err := h.Accounts.Get(c.Context(), user, c.Params("key"))
	if err != nil {
		return fail(c, err)
	}

	input := service.TransactionInput{
		Notes:  req.Notes,
		Amount: req.Amount,
	}
	if req.CategoryKey != nil {
		categoryID, ok := keys.Category.DecodeSuffix(*req.CategoryKey)
		ownerID, ownerOK := keys.Category.DecodePrefix(*req.CategoryKey)
		if !ok || !ownerOK || ownerID != user.ID {
			return fail(c, domain.ErrNotFound)
		}
		input.CategoryID = &categoryID
	}

	transaction, err := h.Ledger.Append(c.Context(), account, input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(newTransactionResponse(transaction))
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	transactions, err := h.Ledger.ListByAccount(c.Context(), currentUser(c), c.Params("key"))
	if err != nil {
		return fail(c, err)
	}
	responses := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, newTransactionResponse(&transactions[i]))
	}
	return c.JSON(fiber.Map{"transactions": responses})
}

func (h *TransactionHandler) Confirm(c *fiber.Ctx) error {
	transaction, err := h.Ledger.Confirm(c.Context(), currentUser(c), c.Params("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(newTransactionResponse(transaction))
}
