package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/security"
)

// UserInput carries profile data. On update, nil fields keep the current
// value.
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Users handles registration, authentication and profile edits. Passwords are
// stored as salted PBKDF2 hashes, never in plaintext.
type Users struct {
	users  UserStore
	hasher *security.Hasher
}

func NewUsers(users UserStore, hasher *security.Hasher) *Users {
	return &Users{users: users, hasher: hasher}
}

// Register creates a user with a fresh salt and hashed password.
func (s *Users) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	count, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateEmail
	}
	salt, err := s.hasher.Salt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Users) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordSalt, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// FindByID loads a user by id, for resolving authenticated requests.
func (s *Users) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Update edits the profile. A changed password is re-hashed with the user's
// existing salt at the hasher's current work factor.
func (s *Users) Update(ctx context.Context, user *domain.User, input UserInput) (*domain.User, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		user.Email = *input.Email
	}
	count, err := s.users.CountByEmailExcluding(ctx, user.Email, user.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateEmail
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := s.hasher.Hash(*input.Password, user.PasswordSalt)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}
