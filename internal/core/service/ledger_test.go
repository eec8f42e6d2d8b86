package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h4j4x/expenses/internal/core/domain"
)

func newTestLedger() (*Ledger, *fakeTransactionStore, *fakeAccountStore, *fakeCategoryStore) {
	transactions := newFakeTransactionStore()
	accounts := newFakeAccountStore()
	categories := newFakeCategoryStore()
	ledger := NewLedger(transactions, accounts, categories, LedgerDefaults{
		CreationWay: domain.CreationManual,
		Status:      domain.TransactionPending,
	})
	return ledger, transactions, accounts, categories
}

func TestAppendDefaultsAndSignal(t *testing.T) {
	ledger, transactions, accounts, _ := newTestLedger()
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())
	transactions.signals = nil

	before := time.Now().UTC()
	transaction, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:  "Groceries",
		Amount: decimal.RequireFromString("-42.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CreationManual, transaction.CreationWay)
	assert.Equal(t, domain.TransactionPending, transaction.Status)
	assert.Equal(t, account.ID, transaction.AccountID)
	assert.Equal(t, account.UserID, transaction.UserID)
	assert.False(t, transaction.CreatedAt.Before(before))
	assert.Nil(t, transaction.ConfirmedAt, "pending entries carry no confirmation time")
	assert.Len(t, transactions.transactions, 1)
	assert.Equal(t, []int64{account.ID}, transactions.signals)
}

func TestAppendExplicitStatusAndWay(t *testing.T) {
	ledger, _, accounts, _ := newTestLedger()
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())

	way := domain.CreationSystem
	status := domain.TransactionConfirmed
	transaction, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:       "Initial balance",
		Amount:      decimal.RequireFromString("100.00"),
		CreationWay: &way,
		Status:      &status,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CreationSystem, transaction.CreationWay)
	assert.Equal(t, domain.TransactionConfirmed, transaction.Status)
	require.NotNil(t, transaction.ConfirmedAt, "entries born confirmed are confirmed at creation")
	assert.True(t, transaction.ConfirmedAt.Equal(transaction.CreatedAt))
}

func TestAppendValidation(t *testing.T) {
	ledger, transactions, accounts, _ := newTestLedger()
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())
	transactions.signals = nil

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"empty notes", TransactionInput{Notes: "", Amount: decimal.New(1, 0)}},
		{"blank notes", TransactionInput{Notes: "   ", Amount: decimal.New(1, 0)}},
		{"three decimal digits", TransactionInput{Notes: "x", Amount: decimal.RequireFromString("1.005")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Append(context.Background(), account, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, transactions.signals)
}

func TestAppendCategoryMustExist(t *testing.T) {
	ledger, transactions, accounts, categories := newTestLedger()
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())
	category := &domain.Category{UserID: account.UserID, Name: "Food"}
	require.NoError(t, categories.Create(context.Background(), category))
	foreign := &domain.Category{UserID: account.UserID + 1, Name: "Food"}
	require.NoError(t, categories.Create(context.Background(), foreign))

	transaction, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:      "Groceries",
		Amount:     decimal.RequireFromString("5.00"),
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, transaction.CategoryID)
	assert.Equal(t, category.ID, *transaction.CategoryID)

	transactions.signals = nil
	t.Run("missing category", func(t *testing.T) {
		missing := int64(999)
		_, err := ledger.Append(context.Background(), account, TransactionInput{
			Notes:      "Groceries",
			Amount:     decimal.RequireFromString("5.00"),
			CategoryID: &missing,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("another user's category", func(t *testing.T) {
		_, err := ledger.Append(context.Background(), account, TransactionInput{
			Notes:      "Groceries",
			Amount:     decimal.RequireFromString("5.00"),
			CategoryID: &foreign.ID,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	assert.Empty(t, transactions.signals, "rejected appends persist nothing")
}

func TestAppendPersistFailure(t *testing.T) {
	ledger, transactions, accounts, _ := newTestLedger()
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())
	transactions.signals = nil
	transactions.createErr = errStoreDown

	_, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:  "Groceries",
		Amount: decimal.RequireFromString("5.00"),
	})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, transactions.transactions)
	assert.Empty(t, transactions.signals, "entry and signal persist together or not at all")
}

func TestConfirmTransitionsAndSignals(t *testing.T) {
	ledger, transactions, accounts, _ := newTestLedger()
	user := &domain.User{ID: 1}
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())

	appended, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:  "Adjusted balance",
		Amount: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	transactions.signals = nil

	confirmed, err := ledger.Confirm(context.Background(), user, appended.Key())
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.False(t, confirmed.ConfirmedAt.Before(appended.CreatedAt))
	assert.Equal(t, []int64{account.ID}, transactions.signals)

	// Already confirmed: no-op, no new signal, confirmation time kept.
	again, err := ledger.Confirm(context.Background(), user, appended.Key())
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionConfirmed, again.Status)
	assert.True(t, again.ConfirmedAt.Equal(*confirmed.ConfirmedAt))
	assert.Equal(t, []int64{account.ID}, transactions.signals)
}

func TestConfirmOwnershipAndKeys(t *testing.T) {
	ledger, _, accounts, _ := newTestLedger()
	owner := &domain.User{ID: 1}
	stranger := &domain.User{ID: 2}
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())

	appended, err := ledger.Append(context.Background(), account, TransactionInput{
		Notes:  "Pending entry",
		Amount: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	t.Run("stranger", func(t *testing.T) {
		_, err := ledger.Confirm(context.Background(), stranger, appended.Key())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("malformed key", func(t *testing.T) {
		_, err := ledger.Confirm(context.Background(), owner, "not-a-key")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("missing transaction", func(t *testing.T) {
		missing := &domain.Transaction{AccountID: account.ID, ID: 999}
		_, err := ledger.Confirm(context.Background(), owner, missing.Key())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListByAccount(t *testing.T) {
	ledger, _, accounts, _ := newTestLedger()
	user := &domain.User{ID: 1}
	account := seedAccount(t, accounts, decimal.Zero, time.Now().UTC())

	for _, notes := range []string{"one", "two", "three"} {
		_, err := ledger.Append(context.Background(), account, TransactionInput{
			Notes:  notes,
			Amount: decimal.New(1, 0),
		})
		require.NoError(t, err)
	}

	listed, err := ledger.ListByAccount(context.Background(), user, account.Key())
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	_, err = ledger.ListByAccount(context.Background(), &domain.User{ID: 2}, account.Key())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
