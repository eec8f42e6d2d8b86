package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/keys"
)

// Categories is the thin CRUD service for transaction categories. Same
// duplicate-name and key-ownership rules as accounts, no balance semantics.
type Categories struct {
	categories CategoryStore
}

func NewCategories(categories CategoryStore) *Categories {
	return &Categories{categories: categories}
}

func (s *Categories) Create(ctx context.Context, user *domain.User, name string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	count, err := s.categories.CountByUserAndName(ctx, user.ID, name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateName
	}
	category := &domain.Category{
		UserID:    user.ID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (s *Categories) List(ctx context.Context, user *domain.User) ([]domain.Category, error) {
	return s.categories.FindAllByUser(ctx, user.ID)
}

func (s *Categories) Edit(ctx context.Context, user *domain.User, key, name string) (*domain.Category, error) {
	userID, ok := keys.Category.DecodePrefix(key)
	if !ok || userID != user.ID {
		return nil, domain.ErrNotFound
	}
	categoryID, ok := keys.Category.DecodeSuffix(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	category, err := s.categories.FindByUserAndID(ctx, user.ID, categoryID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	count, err := s.categories.CountByUserAndNameExcluding(ctx, user.ID, name, category.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateName
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}
