package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID           string             `db:"id" json:"id"`
	Status       domain.OrderStatus `db:"status" json:"status"`
	Currency     string             `db:"currency" json:"currency"`
	Total        decimal.Decimal    `db:"total" json:"total"`
	Lines        int                `db:"lines" json:"lines"`
	CreatedBy    string             `db:"created_by" json:"createdBy"`
	CreatedOnUTC time.Time          `db:"created_on_utc" json:"createdOnUTC"`
}

const orderColumns = `
	id, status, currency, total, version,
	created_by, last_modified_by, created_on_utc, last_modified_on_utc`

// Create inserts a new order header.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO orders(`+orderColumns+`)
		VALUES (
			:id, :status, :currency, :total, :version,
			:created_by, :last_modified_by, :created_on_utc, :last_modified_on_utc
		)`, o)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertItem inserts a single line item snapshot.
func (r *OrderRepo) InsertItem(ctx context.Context, it *domain.OrderItem) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO order_items(order_id, line_no, variant_id, sku, product_name, unit_price, quantity)
		VALUES (:order_id, :line_no, :variant_id, :sku, :product_name, :unit_price, :quantity)`, it)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// Get loads the header and its line items.
func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := getOne(ctx, r.db, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if isNoRows(err) {
		return domain.Order{}, domain.NotFound("order", id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	o.Items = []domain.OrderItem{}
	if err := selectAll(ctx, r.db, &o.Items, `
		SELECT order_id, line_no, COALESCE(variant_id, '') AS variant_id, sku, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no`, id); err != nil {
		return domain.Order{}, fmt.Errorf("get order items: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := selectAll(ctx, r.db, &out, `
		SELECT o.id, o.status, o.currency, o.total,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS lines,
		       o.created_by, o.created_on_utc
		FROM orders o
		ORDER BY o.created_on_utc DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// UpdateStatus moves the order from one status to another only if nobody
// else changed it since version was read. It reports whether the row moved.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, version int, actor string, at time.Time) (bool, error) {
	n, err := exec(ctx, r.db, `
		UPDATE orders
		SET status = ?, version = version + 1, last_modified_by = ?, last_modified_on_utc = ?
		WHERE id = ? AND status = ? AND version = ?`,
		string(to), actor, at, id, string(from), version)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return n == 1, nil
}
