package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type VariantRepo struct{ db sqlx.ExtContext }

func NewVariantRepo(db sqlx.ExtContext) *VariantRepo { return &VariantRepo{db: db} }

// InventoryRow is used by the admin inventory listing.
type InventoryRow struct {
	VariantID   string `db:"variant_id" json:"variantId"`
	SKU         string `db:"sku" json:"sku"`
	ProductID   string `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`
	UnitName    string `db:"unit_name" json:"unitName"`
	Stock       int    `db:"stock" json:"stock"`
}

const variantColumns = `
	id, product_id, unit_value_id, price, stock, sku, payment_item_ref,
	created_by, last_modified_by, created_on_utc, last_modified_on_utc`

func (r *VariantRepo) Insert(ctx context.Context, v *domain.ProductVariant) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO product_variants(`+variantColumns+`)
		VALUES (
			:id, :product_id, :unit_value_id, :price, :stock, :sku, :payment_item_ref,
			:created_by, :last_modified_by, :created_on_utc, :last_modified_on_utc
		)`, v)
	if isUniqueViolation(err) {
		return domain.Invalid("sku", "sku already in use")
	}
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) Get(ctx context.Context, id string) (domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := getOne(ctx, r.db, &v, `SELECT `+variantColumns+` FROM product_variants WHERE id = ?`, id)
	if isNoRows(err) {
		return domain.ProductVariant{}, domain.NotFound("variant", id)
	}
	if err != nil {
		return domain.ProductVariant{}, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]domain.ProductVariant, error) {
	out := []domain.ProductVariant{}
	err := selectAll(ctx, r.db, &out, `
		SELECT `+variantColumns+`
		FROM product_variants
		WHERE product_id = ?
		ORDER BY created_on_utc, sku`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return out, nil
}

// ListAll returns every variant with product and unit names (admin inventory).
func (r *VariantRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	out := []InventoryRow{}
	err := selectAll(ctx, r.db, &out, `
		SELECT v.id AS variant_id, v.sku, p.id AS product_id, p.name AS product_name,
		       u.name AS unit_name, v.stock
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		JOIN unit_values u ON u.id = v.unit_value_id
		ORDER BY p.name, v.sku`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return out, nil
}

// Stock returns the current stock of a variant.
func (r *VariantRepo) Stock(ctx context.Context, id string) (int, error) {
	var stock int
	err := getOne(ctx, r.db, &stock, `SELECT stock FROM product_variants WHERE id = ?`, id)
	if isNoRows(err) {
		return 0, domain.NotFound("variant", id)
	}
	if err != nil {
		return 0, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

// AdjustStock atomically adds delta (negative to reserve) in one guarded
// statement. Stock stays within 0..validate.MaxStock.
func (r *VariantRepo) AdjustStock(ctx context.Context, id string, delta int, actor string, at time.Time) (int, error) {
	if delta > validate.MaxStock || delta < -validate.MaxStock {
		return 0, domain.Invalid("delta", "out of range")
	}
	var stock int
	err := getOne(ctx, r.db, &stock, `
		UPDATE product_variants
		SET stock = stock + ?, last_modified_by = ?, last_modified_on_utc = ?
		WHERE id = ? AND CAST(stock AS BIGINT) + ? BETWEEN 0 AND ?
		RETURNING stock`, delta, actor, at, id, delta, validate.MaxStock)
	if err == nil {
		return stock, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// Nothing updated: either the variant is gone or the guard refused.
	have, serr := r.Stock(ctx, id)
	if serr != nil {
		return 0, serr
	}
	if delta > 0 {
		return 0, domain.Invalid("delta", fmt.Sprintf("stock would exceed %d", validate.MaxStock))
	}
	return 0, &domain.InsufficientStockError{VariantID: id, Requested: -delta, Available: have}
}

func (r *VariantRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal, actor string, at time.Time) error {
	n, err := exec(ctx, r.db, `
		UPDATE product_variants SET price = ?, last_modified_by = ?, last_modified_on_utc = ?
		WHERE id = ?`, price, actor, at, id)
	if err != nil {
		return fmt.Errorf("update variant price: %w", err)
	}
	if n == 0 {
		return domain.NotFound("variant", id)
	}
	return nil
}
