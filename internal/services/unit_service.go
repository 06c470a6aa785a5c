package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

// UnitSpec is the caller-supplied shape of a unit. A nil Multiplier means 1.
type UnitSpec struct {
	UnitType     string           `json:"unitType"`
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	Multiplier   *decimal.Decimal `json:"multiplier"`
	IsBaseUnit   bool             `json:"isBaseUnit"`
	DisplayOrder int              `json:"displayOrder"`
}

type UnitService struct {
	Store *repos.Store
}

func NewUnitService(store *repos.Store) *UnitService {
	return &UnitService{Store: store}
}

func (s *UnitService) Create(ctx context.Context, actor string, spec UnitSpec) (domain.UnitValue, error) {
	var out domain.UnitValue
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		u, err := checkUnit(ctx, tx, "", spec)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		u.ID = uuid.NewString()
		u.IsActive = true
		u.Audit = domain.Audit{CreatedBy: actor, LastModifiedBy: actor, CreatedOnUTC: now, LastModifiedOnUTC: now}
		if err := tx.Units.Insert(ctx, &u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

// Update replaces the editable fields of a unit. Active state is changed
// only through Deactivate.
func (s *UnitService) Update(ctx context.Context, actor, id string, spec UnitSpec) (domain.UnitValue, error) {
	var out domain.UnitValue
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		cur, err := tx.Units.Get(ctx, id)
		if err != nil {
			return err
		}
		u, err := checkUnit(ctx, tx, id, spec)
		if err != nil {
			return err
		}
		u.ID = cur.ID
		u.IsActive = cur.IsActive
		u.Audit = cur.Audit
		u.LastModifiedBy = actor
		u.LastModifiedOnUTC = time.Now().UTC()
		if err := tx.Units.Update(ctx, &u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

func (s *UnitService) Get(ctx context.Context, id string) (domain.UnitValue, error) {
	return s.Store.Units.Get(ctx, id)
}

func (s *UnitService) List(ctx context.Context, activeOnly bool) ([]domain.UnitValue, error) {
	return s.Store.Units.List(ctx, activeOnly)
}

// Convert expresses qty of unit fromID in unit toID. Deactivated units still
// convert; units without a type only convert to themselves.
func (s *UnitService) Convert(ctx context.Context, qty decimal.Decimal, fromID, toID string) (decimal.Decimal, error) {
	from, err := s.Store.Units.Get(ctx, fromID)
	if err != nil {
		return decimal.Zero, err
	}
	if fromID == toID {
		return qty, nil
	}
	to, err := s.Store.Units.Get(ctx, toID)
	if err != nil {
		return decimal.Zero, err
	}
	if from.UnitType == "" || from.UnitType != to.UnitType {
		return decimal.Zero, &domain.UnitMismatchError{FromType: from.UnitType, ToType: to.UnitType}
	}
	return qty.Mul(from.Multiplier).Div(to.Multiplier), nil
}

// Deactivate hides the unit from new variants. Existing variants keep it.
func (s *UnitService) Deactivate(ctx context.Context, actor, id string) error {
	return s.Store.Units.SetActive(ctx, id, false, actor, time.Now().UTC())
}

func checkUnit(ctx context.Context, tx *repos.Store, id string, spec UnitSpec) (domain.UnitValue, error) {
	name, ok := validate.UnitName(spec.Name)
	if !ok {
		return domain.UnitValue{}, domain.Invalid("name", "name is required (max 32 letters, digits, space . _ / -)")
	}
	unitType, ok := validate.Name(spec.UnitType, 32)
	if !ok && strings.TrimSpace(spec.UnitType) != "" {
		return domain.UnitValue{}, domain.Invalid("unitType", "unit type too long")
	}
	symbol := strings.TrimSpace(spec.Symbol)
	if len(symbol) > 16 {
		return domain.UnitValue{}, domain.Invalid("symbol", "symbol too long")
	}
	if spec.DisplayOrder < 0 {
		return domain.UnitValue{}, domain.Invalid("displayOrder", "must be >= 0")
	}

	mult := decimal.NewFromInt(1)
	if spec.Multiplier != nil {
		mult = *spec.Multiplier
	}
	if !mult.IsPositive() {
		return domain.UnitValue{}, domain.Invalid("multiplier", "must be > 0")
	}
	if !validate.Numeric(mult, 18, 6) {
		return domain.UnitValue{}, domain.Invalid("multiplier", "at most 6 decimal places and 12 integer digits")
	}

	if spec.IsBaseUnit {
		if unitType == "" {
			return domain.UnitValue{}, domain.Invalid("unitType", "a base unit needs a unit type")
		}
		if !mult.Equal(decimal.NewFromInt(1)) {
			return domain.UnitValue{}, domain.Invalid("multiplier", "a base unit must have multiplier 1")
		}
		_, exists, err := tx.Units.BaseUnitID(ctx, unitType, id)
		if err != nil {
			return domain.UnitValue{}, err
		}
		if exists {
			return domain.UnitValue{}, domain.Invalid("isBaseUnit", "unit type "+unitType+" already has a base unit")
		}
	}

	taken, err := tx.Units.NameTaken(ctx, name, id)
	if err != nil {
		return domain.UnitValue{}, err
	}
	if taken {
		return domain.UnitValue{}, domain.Invalid("name", "a unit named "+name+" already exists")
	}

	return domain.UnitValue{
		UnitType:     unitType,
		Name:         name,
		Symbol:       symbol,
		Multiplier:   mult,
		IsBaseUnit:   spec.IsBaseUnit,
		DisplayOrder: spec.DisplayOrder,
	}, nil
}
