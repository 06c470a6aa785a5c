package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

const actor = "admin-1"

func newStore(t *testing.T) *repos.Store {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, repos.SQLiteDSN(filepath.Join(t.TempDir(), "storefront.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(db))
	return repos.NewStore(db)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fixture is a catalog with one category, a gram/kilogram pair and one
// product with a single 500 g variant.
type fixture struct {
	store   *repos.Store
	units   *services.UnitService
	catalog *services.CatalogService
	orders  *services.OrderService

	gram, kilo domain.UnitValue
	category   domain.Category
	product    domain.Product
	variant    domain.ProductVariant
}

func newFixture(t *testing.T, price string, stock int) *fixture {
	t.Helper()
	return newFixtureOn(t, newStore(t), price, stock)
}

// newFixtureOn builds the same catalog on an already migrated store.
func newFixtureOn(t *testing.T, st *repos.Store, price string, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:   st,
		units:   services.NewUnitService(st),
		catalog: services.NewCatalogService(st),
		orders:  services.NewOrderService(st),
	}

	var err error
	f.gram, err = f.units.Create(ctx, actor, services.UnitSpec{UnitType: "Weight", Name: "g", Symbol: "g", IsBaseUnit: true})
	require.NoError(t, err)
	f.kilo, err = f.units.Create(ctx, actor, services.UnitSpec{UnitType: "Weight", Name: "kg", Symbol: "kg", Multiplier: decp("1000")})
	require.NoError(t, err)

	f.category, err = f.catalog.CreateCategory(ctx, actor, "Spices")
	require.NoError(t, err)
	f.product, err = f.catalog.CreateProduct(ctx, actor, services.ProductSpec{CategoryID: f.category.ID, Name: "Turmeric"})
	require.NoError(t, err)
	f.variant, err = f.catalog.AddVariant(ctx, actor, f.product.ID, services.VariantSpec{
		UnitValueID: f.kilo.ID, Price: dec(price), Stock: stock, SKU: "TUR-1KG",
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) stock(t *testing.T, variantID string) int {
	t.Helper()
	n, err := f.store.Variants.Stock(context.Background(), variantID)
	require.NoError(t, err)
	return n
}
