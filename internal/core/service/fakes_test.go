package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*domain.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) CountByEmail(_ context.Context, email string) (int64, error) {
	var count int64
	for _, user := range s.users {
		if user.Email == email {
			count++
		}
	}
	return count, nil
}

func (s *fakeUserStore) CountByEmailExcluding(_ context.Context, email string, id int64) (int64, error) {
	var count int64
	for _, user := range s.users {
		if user.Email == email && user.ID != id {
			count++
		}
	}
	return count, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

type fakeAccountStore struct {
	nextID   int64
	accounts map[int64]*domain.Account
	// conflicts makes the next N UpdateBalance calls lose the CAS race.
	conflicts int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[int64]*domain.Account{}}
}

func (s *fakeAccountStore) Create(_ context.Context, account *domain.Account) error {
	s.nextID++
	account.ID = s.nextID
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}

func (s *fakeAccountStore) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *fakeAccountStore) FindByUserAndID(_ context.Context, userID, id int64) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok || account.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *fakeAccountStore) FindAllByUser(_ context.Context, userID int64) ([]domain.Account, error) {
	var accounts []domain.Account
	for _, account := range s.accounts {
		if account.UserID == userID {
			accounts = append(accounts, *account)
		}
	}
	return accounts, nil
}

func (s *fakeAccountStore) CountByUserAndName(_ context.Context, userID int64, name string) (int64, error) {
	return s.CountByUserAndNameExcluding(context.Background(), userID, name, 0)
}

func (s *fakeAccountStore) CountByUserAndNameExcluding(_ context.Context, userID int64, name string, id int64) (int64, error) {
	var count int64
	for _, account := range s.accounts {
		if account.UserID == userID && account.Name == name && account.ID != id {
			count++
		}
	}
	return count, nil
}

func (s *fakeAccountStore) UpdateDetails(_ context.Context, account *domain.Account) error {
	stored, ok := s.accounts[account.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name = account.Name
	stored.AccountType = account.AccountType
	stored.Currency = account.Currency
	return nil
}

func (s *fakeAccountStore) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal, watermark, expected time.Time) (bool, error) {
	stored, ok := s.accounts[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s.conflicts > 0 {
		s.conflicts--
		return false, nil
	}
	if !stored.BalanceUpdatedAt.Equal(expected) {
		return false, nil
	}
	stored.Balance = balance
	stored.BalanceUpdatedAt = watermark
	return true, nil
}

// fakeTransactionStore mirrors the real store's contract: entries and their
// reconciliation signals land together or not at all.
type fakeTransactionStore struct {
	nextID       int64
	transactions map[int64]*domain.Transaction
	signals      []int64
	createErr    error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{transactions: map[int64]*domain.Transaction{}}
}

func (s *fakeTransactionStore) Create(_ context.Context, transaction *domain.Transaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	transaction.ID = s.nextID
	clone := *transaction
	s.transactions[transaction.ID] = &clone
	s.signals = append(s.signals, transaction.AccountID)
	return nil
}

func (s *fakeTransactionStore) FindByAccountAndID(_ context.Context, accountID, id int64) (*domain.Transaction, error) {
	transaction, ok := s.transactions[id]
	if !ok || transaction.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	clone := *transaction
	return &clone, nil
}

func (s *fakeTransactionStore) FindAllByAccount(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, transaction := range s.transactions {
		if transaction.AccountID == accountID {
			transactions = append(transactions, *transaction)
		}
	}
	return transactions, nil
}

func (s *fakeTransactionStore) FindConfirmedInWindow(_ context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, transaction := range s.transactions {
		if transaction.AccountID != accountID || transaction.Status != domain.TransactionConfirmed {
			continue
		}
		if transaction.ConfirmedAt == nil || transaction.ConfirmedAt.Before(from) || !transaction.ConfirmedAt.Before(to) {
			continue
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, nil
}

func (s *fakeTransactionStore) Confirm(_ context.Context, accountID, id int64, confirmedAt time.Time) (bool, error) {
	transaction, ok := s.transactions[id]
	if !ok || transaction.AccountID != accountID {
		return false, nil
	}
	if transaction.Status == domain.TransactionConfirmed {
		return false, nil
	}
	transaction.Status = domain.TransactionConfirmed
	transaction.ConfirmedAt = &confirmedAt
	s.signals = append(s.signals, accountID)
	return true, nil
}

var errStoreDown = errors.New("store down")
