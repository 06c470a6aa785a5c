package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit carries who touched a row and when. Actors are passed into every
// mutating operation explicitly.
type Audit struct {
	CreatedBy         string    `db:"created_by" json:"createdBy"`
	LastModifiedBy    string    `db:"last_modified_by" json:"lastModifiedBy"`
	CreatedOnUTC      time.Time `db:"created_on_utc" json:"createdOnUTC"`
	LastModifiedOnUTC time.Time `db:"last_modified_on_utc" json:"lastModifiedOnUTC"`
}

type Category struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Audit
}

// UnitValue is a measurement unit. Multiplier is relative to the base unit
// of the same UnitType.
type UnitValue struct {
	ID           string          `db:"id" json:"id"`
	UnitType     string          `db:"unit_type" json:"unitType"`
	Name         string          `db:"name" json:"name"`
	Symbol       string          `db:"symbol" json:"symbol"`
	Multiplier   decimal.Decimal `db:"multiplier" json:"multiplier"`
	IsBaseUnit   bool            `db:"is_base_unit" json:"isBaseUnit"`
	DisplayOrder int             `db:"display_order" json:"displayOrder"`
	IsActive     bool            `db:"is_active" json:"isActive"`
	Audit
}

// Product is a template; sellable units are its variants.
type Product struct {
	ID              string          `db:"id" json:"id"`
	CategoryID      string          `db:"category_id" json:"categoryId"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	RichDescription string          `db:"rich_description" json:"richDescription"`
	ItemID          string          `db:"item_id" json:"itemId"`
	Currency        string          `db:"currency" json:"currency"`
	IsBestSelling   bool            `db:"is_best_selling" json:"isBestSelling"`
	HSNCode         string          `db:"hsn_code" json:"hsnCode"`
	TaxRate         decimal.Decimal `db:"tax_rate" json:"taxRate"`
	IsArchived      bool            `db:"is_archived" json:"isArchived"`
	Audit

	Variants []ProductVariant `db:"-" json:"variants,omitempty"`
}

type ProductVariant struct {
	ID             string          `db:"id" json:"id"`
	ProductID      string          `db:"product_id" json:"productId"`
	UnitValueID    string          `db:"unit_value_id" json:"unitValueId"`
	Price          decimal.Decimal `db:"price" json:"price"`
	Stock          int             `db:"stock" json:"stock"`
	SKU            string          `db:"sku" json:"sku"`
	PaymentItemRef string          `db:"payment_item_ref" json:"paymentItemRef"`
	Audit

	Unit *UnitValue `db:"-" json:"unit,omitempty"`
}

// OrderItem is a snapshot taken at checkout. VariantID is empty once the
// variant itself has been removed from the catalog.
type OrderItem struct {
	OrderID     string          `db:"order_id" json:"orderId"`
	LineNo      int             `db:"line_no" json:"lineNo"`
	VariantID   string          `db:"variant_id" json:"variantId"`
	SKU         string          `db:"sku" json:"sku"`
	ProductName string          `db:"product_name" json:"productName"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Quantity    int             `db:"quantity" json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID       string          `db:"id" json:"id"`
	Status   OrderStatus     `db:"status" json:"status"`
	Currency string          `db:"currency" json:"currency"`
	Total    decimal.Decimal `db:"total" json:"total"`
	Version  int             `db:"version" json:"version"`
	Audit

	Items []OrderItem `db:"-" json:"items"`
}

// Availability is the shopper-facing view of a variant's stock.
type Availability struct {
	Status string `json:"status"` // IN_STOCK, LOW_STOCK, OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
