package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/h4j4x/expenses/internal/core/domain"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO user_categories (user_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, category.UserID, category.Name, category.CreatedAt).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByUserAndID(ctx context.Context, userID, id int64) (*domain.Category, error) {
	query := `SELECT id, user_id, name, created_at FROM user_categories WHERE user_id = $1 AND id = $2`
	var category domain.Category
	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) FindAllByUser(ctx context.Context, userID int64) ([]domain.Category, error) {
	query := `SELECT id, user_id, name, created_at FROM user_categories WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Category])
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) CountByUserAndName(ctx context.Context, userID int64, name string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_categories WHERE user_id = $1 AND name = $2`, userID, name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) CountByUserAndNameExcluding(ctx context.Context, userID int64, name string, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_categories WHERE user_id = $1 AND name = $2 AND id <> $3`,
		userID, name, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_categories SET name = $2 WHERE id = $1`, category.ID, category.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
