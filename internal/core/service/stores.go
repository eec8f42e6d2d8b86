package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
)

// UserStore persists user identities and credentials.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	CountByEmailExcluding(ctx context.Context, email string, id int64) (int64, error)
	Update(ctx context.Context, user *domain.User) error
}

// AccountStore persists accounts. UpdateBalance is the only way the balance
// and watermark move, and it moves them together: the update applies only if
// the stored watermark still equals expected, so two concurrent folds cannot
// both land on the same window.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByUserAndID(ctx context.Context, userID, id int64) (*domain.Account, error)
	FindAllByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	CountByUserAndName(ctx context.Context, userID int64, name string) (int64, error)
	CountByUserAndNameExcluding(ctx context.Context, userID int64, name string, id int64) (int64, error)
	UpdateDetails(ctx context.Context, account *domain.Account) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, watermark, expected time.Time) (bool, error)
}

// TransactionStore persists ledger entries. Entries are append-only except
// for the forward-only status column. Every write that creates or confirms an
// entry also records the reconciliation signal for its account in the same
// storage transaction, so an entry and its signal are never persisted apart.
type TransactionStore interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	FindByAccountAndID(ctx context.Context, accountID, id int64) (*domain.Transaction, error)
	FindAllByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	// FindConfirmedInWindow returns CONFIRMED entries with
	// from <= confirmed_at < to.
	FindConfirmedInWindow(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error)
	// Confirm moves a PENDING or ADJUST_PENDING entry to CONFIRMED,
	// stamping confirmedAt, and reports whether a row changed.
	Confirm(ctx context.Context, accountID, id int64, confirmedAt time.Time) (bool, error)
}

// CategoryStore persists transaction categories.
type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByUserAndID(ctx context.Context, userID, id int64) (*domain.Category, error)
	FindAllByUser(ctx context.Context, userID int64) ([]domain.Category, error)
	CountByUserAndName(ctx context.Context, userID int64, name string) (int64, error)
	CountByUserAndNameExcluding(ctx context.Context, userID int64, name string, id int64) (int64, error)
	Update(ctx context.Context, category *domain.Category) error
}
