package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

const lowStockThreshold = 5

type InventoryItem struct {
	repos.InventoryRow
	Availability domain.Availability `json:"availability"`
}

type InventoryService struct {
	Variants *repos.VariantRepo
}

func NewInventoryService(variants *repos.VariantRepo) *InventoryService {
	return &InventoryService{Variants: variants}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, variantID string) (domain.Availability, error) {
	qty, err := s.Variants.Stock(ctx, variantID)
	if err != nil {
		return domain.Availability{}, err
	}
	return availability(qty), nil
}

// List is the admin inventory view.
func (s *InventoryService) List(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.Variants.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, InventoryItem{InventoryRow: r, Availability: availability(r.Stock)})
	}
	return out, nil
}

func availability(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}
}
