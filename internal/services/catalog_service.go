package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

const defaultCurrency = "INR"

type ProductSpec struct {
	CategoryID      string          `json:"categoryId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	RichDescription string          `json:"richDescription"`
	ItemID          string          `json:"itemId"`
	Currency        string          `json:"currency"`
	IsBestSelling   bool            `json:"isBestSelling"`
	HSNCode         string          `json:"hsnCode"`
	TaxRate         decimal.Decimal `json:"taxRate"`
}

type VariantSpec struct {
	UnitValueID    string          `json:"unitValueId"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	SKU            string          `json:"sku"`
	PaymentItemRef string          `json:"paymentItemRef"`
}

// DeleteResult tells whether a delete was downgraded to archival because
// open orders still point at the product.
type DeleteResult struct {
	Archived bool `json:"archived"`
}

type CatalogService struct {
	Store *repos.Store
}

func NewCatalogService(store *repos.Store) *CatalogService {
	return &CatalogService{Store: store}
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor, name string) (domain.Category, error) {
	n, ok := validate.Name(name, 80)
	if !ok {
		return domain.Category{}, domain.Invalid("name", "name is required (max 80 chars)")
	}
	now := time.Now().UTC()
	c := domain.Category{
		ID:    uuid.NewString(),
		Name:  n,
		Audit: domain.Audit{CreatedBy: actor, LastModifiedBy: actor, CreatedOnUTC: now, LastModifiedOnUTC: now},
	}
	if err := s.Store.Categories.Insert(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Store.Categories.List(ctx)
}

func (s *CatalogService) CategoryExists(ctx context.Context, id string) (bool, error) {
	return s.Store.Categories.Exists(ctx, id)
}

// DeleteCategory removes a category with its products and variants. It is
// refused while any of those variants sits on a non-cancelled order.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor, id string) error {
	return s.Store.InTx(ctx, func(tx *repos.Store) error {
		ok, err := tx.Categories.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("category", id)
		}
		refs, err := tx.Products.CategoryOpenOrderRefs(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.Invalid("categoryId", "category has products referenced by open orders")
		}
		return tx.Categories.Delete(ctx, id)
	})
}

func (s *CatalogService) CreateProduct(ctx context.Context, actor string, spec ProductSpec) (domain.Product, error) {
	name, ok := validate.Name(spec.Name, 120)
	if !ok {
		return domain.Product{}, domain.Invalid("name", "name is required (max 120 chars)")
	}
	currency := defaultCurrency
	if strings.TrimSpace(spec.Currency) != "" {
		if currency, ok = validate.Currency(spec.Currency); !ok {
			return domain.Product{}, domain.Invalid("currency", "must be a 3-letter code")
		}
	}
	hsn, ok := validate.HSN(spec.HSNCode)
	if !ok {
		return domain.Product{}, domain.Invalid("hsnCode", "must be 2-8 digits")
	}
	if spec.TaxRate.IsNegative() || spec.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Product{}, domain.Invalid("taxRate", "must be between 0 and 100")
	}
	if !validate.Numeric(spec.TaxRate, 5, 2) {
		return domain.Product{}, domain.Invalid("taxRate", "at most 2 decimal places")
	}

	var out domain.Product
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		ok, err := tx.Categories.Exists(ctx, spec.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("category", spec.CategoryID)
		}
		now := time.Now().UTC()
		p := domain.Product{
			ID:              uuid.NewString(),
			CategoryID:      spec.CategoryID,
			Name:            name,
			Description:     strings.TrimSpace(spec.Description),
			RichDescription: spec.RichDescription,
			ItemID:          strings.TrimSpace(spec.ItemID),
			Currency:        currency,
			IsBestSelling:   spec.IsBestSelling,
			HSNCode:         hsn,
			TaxRate:         spec.TaxRate,
			Audit:           domain.Audit{CreatedBy: actor, LastModifiedBy: actor, CreatedOnUTC: now, LastModifiedOnUTC: now},
			Variants:        []domain.ProductVariant{},
		}
		if err := tx.Products.Insert(ctx, &p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (s *CatalogService) AddVariant(ctx context.Context, actor, productID string, spec VariantSpec) (domain.ProductVariant, error) {
	var out domain.ProductVariant
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		p, err := tx.Products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if p.IsArchived {
			return domain.Invalid("productId", "product is archived")
		}
		if err := checkPrice(spec.Price); err != nil {
			return err
		}
		if !validate.Quantity(spec.Stock) {
			return domain.Invalid("stock", fmt.Sprintf("must be between 0 and %d", validate.MaxStock))
		}
		sku, ok := validate.SKU(spec.SKU)
		if !ok {
			return domain.Invalid("sku", "sku is required (letters, digits . _ -)")
		}

		unit, err := tx.Units.Get(ctx, spec.UnitValueID)
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return domain.Invalid("unitValueId", "unknown unit")
		}
		if err != nil {
			return err
		}
		if !unit.IsActive {
			return domain.Invalid("unitValueId", "unit "+unit.Name+" is inactive")
		}

		now := time.Now().UTC()
		v := domain.ProductVariant{
			ID:             uuid.NewString(),
			ProductID:      p.ID,
			UnitValueID:    unit.ID,
			Price:          spec.Price,
			Stock:          spec.Stock,
			SKU:            sku,
			PaymentItemRef: strings.TrimSpace(spec.PaymentItemRef),
			Audit:          domain.Audit{CreatedBy: actor, LastModifiedBy: actor, CreatedOnUTC: now, LastModifiedOnUTC: now},
		}
		if err := tx.Variants.Insert(ctx, &v); err != nil {
			return err
		}
		v.Unit = &unit
		out = v
		return nil
	})
	return out, err
}

// AdjustStock adds delta to the variant's stock and returns the new level.
func (s *CatalogService) AdjustStock(ctx context.Context, actor, variantID string, delta int) (int, error) {
	if delta > validate.MaxStock || delta < -validate.MaxStock {
		return 0, domain.Invalid("delta", fmt.Sprintf("must be within +/-%d", validate.MaxStock))
	}
	return s.Store.Variants.AdjustStock(ctx, variantID, delta, actor, time.Now().UTC())
}

// UpdateVariantPrice changes the list price. Placed orders keep the price
// captured at checkout.
func (s *CatalogService) UpdateVariantPrice(ctx context.Context, actor, variantID string, price decimal.Decimal) error {
	if err := checkPrice(price); err != nil {
		return err
	}
	return s.Store.Variants.UpdatePrice(ctx, variantID, price, actor, time.Now().UTC())
}

// UnitPrice is the variant price per base unit of its unit type.
func (s *CatalogService) UnitPrice(ctx context.Context, variantID string) (decimal.Decimal, error) {
	v, err := s.Store.Variants.Get(ctx, variantID)
	if err != nil {
		return decimal.Zero, err
	}
	u, err := s.Store.Units.Get(ctx, v.UnitValueID)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Price.Div(u.Multiplier), nil
}

// GetProduct loads a product with its variants and their units, including
// units that have since been deactivated.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.Store.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	vs, err := s.Store.Variants.ListByProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	units := map[string]*domain.UnitValue{}
	for i := range vs {
		u, ok := units[vs[i].UnitValueID]
		if !ok {
			got, err := s.Store.Units.Get(ctx, vs[i].UnitValueID)
			if err != nil {
				return domain.Product{}, err
			}
			u = &got
			units[got.ID] = u
		}
		vs[i].Unit = u
	}
	p.Variants = vs
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f repos.ProductFilter) ([]domain.Product, error) {
	return s.Store.Products.List(ctx, f)
}

// DeleteProduct removes a product and its variants, or archives it when a
// non-cancelled order still references one of its variants.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor, id string) (DeleteResult, error) {
	var res DeleteResult
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		if _, err := tx.Products.Get(ctx, id); err != nil {
			return err
		}
		refs, err := tx.Products.OpenOrderRefs(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			res.Archived = true
			return tx.Products.Archive(ctx, id, actor, time.Now().UTC())
		}
		return tx.Products.Delete(ctx, id)
	})
	return res, err
}

// checkPrice keeps prices inside NUMERIC(12,2) so storage never rounds them.
func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Invalid("price", "must be >= 0")
	}
	if !validate.Numeric(p, 12, 2) {
		return domain.Invalid("price", "at most 2 decimal places and 10 integer digits")
	}
	return nil
}
