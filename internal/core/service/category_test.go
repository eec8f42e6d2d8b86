package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h4j4x/expenses/internal/core/domain"
)

type fakeCategoryStore struct {
	nextID     int64
	categories map[int64]*domain.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: map[int64]*domain.Category{}}
}

func (s *fakeCategoryStore) Create(_ context.Context, category *domain.Category) error {
	s.nextID++
	category.ID = s.nextID
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func (s *fakeCategoryStore) FindByUserAndID(_ context.Context, userID, id int64) (*domain.Category, error) {
	category, ok := s.categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *category
	return &clone, nil
}

func (s *fakeCategoryStore) FindAllByUser(_ context.Context, userID int64) ([]domain.Category, error) {
	var categories []domain.Category
	for _, category := range s.categories {
		if category.UserID == userID {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (s *fakeCategoryStore) CountByUserAndName(_ context.Context, userID int64, name string) (int64, error) {
	return s.CountByUserAndNameExcluding(context.Background(), userID, name, 0)
}

func (s *fakeCategoryStore) CountByUserAndNameExcluding(_ context.Context, userID int64, name string, id int64) (int64, error) {
	var count int64
	for _, category := range s.categories {
		if category.UserID == userID && category.Name == name && category.ID != id {
			count++
		}
	}
	return count, nil
}

func (s *fakeCategoryStore) Update(_ context.Context, category *domain.Category) error {
	if _, ok := s.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func TestCategoryCreateAndList(t *testing.T) {
	categories := NewCategories(newFakeCategoryStore())
	user := &domain.User{ID: 1}

	created, err := categories.Create(context.Background(), user, "Food")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.After(time.Now().UTC()))

	_, err = categories.Create(context.Background(), user, "Food")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = categories.Create(context.Background(), &domain.User{ID: 2}, "Food")
	assert.NoError(t, err)

	listed, err := categories.List(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCategoryEdit(t *testing.T) {
	categories := NewCategories(newFakeCategoryStore())
	user := &domain.User{ID: 1}

	created, err := categories.Create(context.Background(), user, "Food")
	require.NoError(t, err)
	_, err = categories.Create(context.Background(), user, "Travel")
	require.NoError(t, err)

	edited, err := categories.Edit(context.Background(), user, created.Key(), "Dining")
	require.NoError(t, err)
	assert.Equal(t, "Dining", edited.Name)

	_, err = categories.Edit(context.Background(), user, created.Key(), "Travel")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = categories.Edit(context.Background(), &domain.User{ID: 2}, created.Key(), "Other")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = categories.Edit(context.Background(), user, "bogus", "Other")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
