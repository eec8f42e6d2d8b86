package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/keys"
)

type AccountType string

const (
	AccountTypeMoney AccountType = "MONEY"
	AccountTypeOther AccountType = "OTHER"
)

type TransactionStatus string

const (
	TransactionPending       TransactionStatus = "PENDING"
	TransactionConfirmed     TransactionStatus = "CONFIRMED"
	TransactionAdjustPending TransactionStatus = "ADJUST_PENDING"
)

type CreationWay string

const (
	CreationManual CreationWay = "MANUAL"
	CreationSystem CreationWay = "SYSTEM"
)

// User owns accounts, categories and transactions. PasswordHash carries its
// iteration count embedded ("<iterations>:<hexKey>"); PasswordSalt is hex.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}

// Account is a user's money (or other asset) account. Balance is never
// written directly: it is derived by folding transactions confirmed before
// BalanceUpdatedAt, so it trails the ledger until the next reconciliation
// pass.
type Account struct {
	ID               int64
	UserID           int64
	Name             string
	AccountType      AccountType
	Currency         string
	Balance          decimal.Decimal
	BalanceUpdatedAt time.Time
	CreatedAt        time.Time
}

// Key returns the opaque token addressing this account.
func (a *Account) Key() string {
	return keys.Account.Encode(a.UserID, a.ID)
}

// Transaction is a ledger entry. Amount, Notes and AccountID are immutable
// after creation; only Status moves, and only forward. ConfirmedAt is set the
// moment the entry becomes CONFIRMED (at creation for entries born confirmed)
// and is the axis reconciliation folds on, so a late confirmation is never
// hidden behind an already advanced watermark.
type Transaction struct {
	ID          int64
	UserID      int64
	AccountID   int64
	CategoryID  *int64
	Amount      decimal.Decimal
	Notes       string
	CreationWay CreationWay
	Status      TransactionStatus
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}

// Key encodes (accountID, transactionID): transactions are addressed through
// their account rather than directly through the owner.
func (t *Transaction) Key() string {
	return keys.Transaction.Encode(t.AccountID, t.ID)
}

// Category groups transactions for reporting. No balance semantics.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

func (c *Category) Key() string {
	return keys.Category.Encode(c.UserID, c.ID)
}
