package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

type ProductFilter struct {
	CategoryID      string
	BestSellingOnly bool
	Offset          int
	Limit           int
}

const productColumns = `
	id, category_id, name, description, rich_description, item_id, currency,
	is_best_selling, hsn_code, tax_rate, is_archived,
	created_by, last_modified_by, created_on_utc, last_modified_on_utc`

func (r *ProductRepo) Insert(ctx context.Context, p *domain.Product) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO products(`+productColumns+`)
		VALUES (
			:id, :category_id, :name, :description, :rich_description, :item_id, :currency,
			:is_best_selling, :hsn_code, :tax_rate, :is_archived,
			:created_by, :last_modified_by, :created_on_utc, :last_modified_on_utc
		)`, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := getOne(ctx, r.db, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if isNoRows(err) {
		return domain.Product{}, domain.NotFound("product", id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns non-archived products, newest first.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	where := `is_archived = ?`
	args := []any{false}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.BestSellingOnly {
		where += ` AND is_best_selling = ?`
		args = append(args, true)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := selectAll(ctx, r.db, &out, `
		SELECT `+productColumns+`
		FROM products
		WHERE `+where+`
		ORDER BY created_on_utc DESC, id
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Archive(ctx context.Context, id, actor string, at time.Time) error {
	n, err := exec(ctx, r.db, `
		UPDATE products SET is_archived = ?, last_modified_by = ?, last_modified_on_utc = ?
		WHERE id = ?`, true, actor, at, id)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// Delete removes the product and, by cascade, its variants.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	n, err := exec(ctx, r.db, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// OpenOrderRefs counts line items of non-cancelled orders that point at a
// variant of the product.
func (r *ProductRepo) OpenOrderRefs(ctx context.Context, productID string) (int, error) {
	var n int
	err := getOne(ctx, r.db, &n, `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN product_variants v ON v.id = oi.variant_id
		WHERE v.product_id = ? AND o.status <> ?`, productID, string(domain.OrderStatusCancelled))
	if err != nil {
		return 0, fmt.Errorf("count order references: %w", err)
	}
	return n, nil
}

// CategoryOpenOrderRefs is OpenOrderRefs over every product of a category.
func (r *ProductRepo) CategoryOpenOrderRefs(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := getOne(ctx, r.db, &n, `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN product_variants v ON v.id = oi.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE p.category_id = ? AND o.status <> ?`, categoryID, string(domain.OrderStatusCancelled))
	if err != nil {
		return 0, fmt.Errorf("count order references: %w", err)
	}
	return n, nil
}
