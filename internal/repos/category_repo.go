package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CategoryRepo struct{ db sqlx.ExtContext }

func NewCategoryRepo(db sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Insert(ctx context.Context, c *domain.Category) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO categories(id, name, created_by, last_modified_by, created_on_utc, last_modified_on_utc)
		VALUES (:id, :name, :created_by, :last_modified_by, :created_on_utc, :last_modified_on_utc)`, c)
	if isUniqueViolation(err) {
		return domain.Invalid("name", "category already exists")
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := selectAll(ctx, r.db, &out, `
		SELECT id, name, created_by, last_modified_by, created_on_utc, last_modified_on_utc
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *CategoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := getOne(ctx, r.db, &n, `SELECT COUNT(*) FROM categories WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return n > 0, nil
}

// Delete removes the category; products and variants go with it through
// the ON DELETE CASCADE chain.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return domain.NotFound("category", id)
	}
	return nil
}
