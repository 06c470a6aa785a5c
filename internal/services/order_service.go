package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

type LineItemRequest struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderResult struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
}

type OrderService struct {
	Store *repos.Store
}

func NewOrderService(store *repos.Store) *OrderService {
	return &OrderService{Store: store}
}

// CreateOrder reserves stock for every line and records the order in one
// transaction. If any line fails, no stock is reserved.
func (s *OrderService) CreateOrder(ctx context.Context, actor string, lines []LineItemRequest) (CreateOrderResult, error) {
	if len(lines) == 0 {
		return CreateOrderResult{}, domain.Invalid("items", "order needs at least one line")
	}
	for i, l := range lines {
		if l.Quantity < 1 || !validate.Quantity(l.Quantity) {
			return CreateOrderResult{}, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("must be between 1 and %d", validate.MaxStock))
		}
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:      uuid.NewString(),
		Status:  domain.OrderStatusPending,
		Version: 1,
		Total:   decimal.Zero,
		Audit:   domain.Audit{CreatedBy: actor, LastModifiedBy: actor, CreatedOnUTC: now, LastModifiedOnUTC: now},
	}

	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		items := make([]domain.OrderItem, 0, len(lines))
		for i, l := range lines {
			v, err := tx.Variants.Get(ctx, l.VariantID)
			if err != nil {
				return err
			}
			p, err := tx.Products.Get(ctx, v.ProductID)
			if err != nil {
				return err
			}
			if p.IsArchived {
				return domain.Invalid(fmt.Sprintf("items[%d].variantId", i), "product is no longer sold")
			}
			switch {
			case order.Currency == "":
				order.Currency = p.Currency
			case order.Currency != p.Currency:
				return domain.Invalid("items", "all lines must share one currency")
			}

			if _, err := tx.Variants.AdjustStock(ctx, v.ID, -l.Quantity, actor, now); err != nil {
				return err
			}

			it := domain.OrderItem{
				OrderID:     order.ID,
				LineNo:      i + 1,
				VariantID:   v.ID,
				SKU:         v.SKU,
				ProductName: p.Name,
				UnitPrice:   v.Price,
				Quantity:    l.Quantity,
			}
			order.Total = order.Total.Add(it.Subtotal())
			items = append(items, it)
		}
		if !validate.Numeric(order.Total, 14, 2) {
			return domain.Invalid("items", "order total is too large")
		}

		if err := tx.Orders.Create(ctx, &order); err != nil {
			return err
		}
		for i := range items {
			if err := tx.Orders.InsertItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{OrderID: order.ID, Status: order.Status}, nil
}

// Transition moves an order along the status table. Entering cancelled puts
// every reserved quantity back in the same transaction. A concurrent change
// to the same order yields domain.ErrOrderConflict.
func (s *OrderService) Transition(ctx context.Context, actor, orderID string, to domain.OrderStatus) (domain.Order, error) {
	if !to.IsValid() {
		return domain.Order{}, domain.Invalid("status", fmt.Sprintf("unknown status %q", to))
	}

	var out domain.Order
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		o, err := tx.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(to) {
			return &domain.InvalidTransitionError{From: o.Status, To: to}
		}

		now := time.Now().UTC()
		moved, err := tx.Orders.UpdateStatus(ctx, o.ID, o.Status, to, o.Version, actor, now)
		if err != nil {
			return err
		}
		if !moved {
			return domain.ErrOrderConflict
		}

		if to.ReleasesStock() {
			for _, it := range o.Items {
				if it.VariantID == "" {
					continue // variant removed from the catalog
				}
				if _, err := tx.Variants.AdjustStock(ctx, it.VariantID, it.Quantity, actor, now); err != nil {
					return fmt.Errorf("restore stock for line %d: %w", it.LineNo, err)
				}
			}
		}

		o.Status = to
		o.Version++
		o.LastModifiedBy = actor
		o.LastModifiedOnUTC = now
		out = o
		return nil
	})
	return out, err
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.Store.Orders.Get(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]repos.OrderSummary, error) {
	return s.Store.Orders.ListLatest(ctx, limit)
}
