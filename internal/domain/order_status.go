package domain

import (
	"database/sql/driver"
	"strings"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatusType is the name of the persisted enumeration.
const OrderStatusType = "order_status"

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// OrderStatuses returns every status in declaration order. The persisted
// enumeration must contain at least these values.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// OrderStatusValues is OrderStatuses as plain strings.
func OrderStatusValues() []string {
	out := make([]string, len(orderStatuses))
	for i, s := range orderStatuses {
		out[i] = string(s)
	}
	return out
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

func (s OrderStatus) IsValid() bool {
	for _, v := range orderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ReleasesStock reports whether entering s hands reserved stock back.
func (s OrderStatus) ReleasesStock() bool {
	return s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// Value stores the status as its plain label.
func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}
