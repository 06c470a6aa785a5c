package handlers

import (
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	UnitHandler      *UnitHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

func NewDeps(store *repos.Store) *Deps {
	unitSvc := services.NewUnitService(store)
	catalogSvc := services.NewCatalogService(store)
	invSvc := services.NewInventoryService(store.Variants)
	orderSvc := services.NewOrderService(store)

	return &Deps{
		UnitHandler:      &UnitHandler{Units: unitSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc, Catalog: catalogSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		AdminHandler:     &AdminHandler{Order: orderSvc, Inv: invSvc},
	}
}
