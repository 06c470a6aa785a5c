package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type UnitRepo struct{ db sqlx.ExtContext }

func NewUnitRepo(db sqlx.ExtContext) *UnitRepo { return &UnitRepo{db: db} }

const unitColumns = `
	id, unit_type, name, symbol, multiplier, is_base_unit, display_order, is_active,
	created_by, last_modified_by, created_on_utc, last_modified_on_utc`

// Insert stores a new unit. A duplicate name surfaces as a ValidationError.
func (r *UnitRepo) Insert(ctx context.Context, u *domain.UnitValue) error {
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO unit_values(`+unitColumns+`)
		VALUES (
			:id, :unit_type, :name, :symbol, :multiplier, :is_base_unit, :display_order, :is_active,
			:created_by, :last_modified_by, :created_on_utc, :last_modified_on_utc
		)`, u)
	if isUniqueViolation(err) {
		return domain.Invalid("name", "a unit with this name already exists, or its type already has a base unit")
	}
	if err != nil {
		return fmt.Errorf("insert unit value: %w", err)
	}
	return nil
}

func (r *UnitRepo) Update(ctx context.Context, u *domain.UnitValue) error {
	res, err := sqlx.NamedExecContext(ctx, r.db, `
		UPDATE unit_values SET
			unit_type = :unit_type,
			name = :name,
			symbol = :symbol,
			multiplier = :multiplier,
			is_base_unit = :is_base_unit,
			display_order = :display_order,
			last_modified_by = :last_modified_by,
			last_modified_on_utc = :last_modified_on_utc
		WHERE id = :id`, u)
	if isUniqueViolation(err) {
		return domain.Invalid("name", "a unit with this name already exists, or its type already has a base unit")
	}
	if err != nil {
		return fmt.Errorf("update unit value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("unit value", u.ID)
	}
	return nil
}

func (r *UnitRepo) Get(ctx context.Context, id string) (domain.UnitValue, error) {
	var u domain.UnitValue
	err := getOne(ctx, r.db, &u, `SELECT `+unitColumns+` FROM unit_values WHERE id = ?`, id)
	if isNoRows(err) {
		return domain.UnitValue{}, domain.NotFound("unit value", id)
	}
	if err != nil {
		return domain.UnitValue{}, fmt.Errorf("get unit value: %w", err)
	}
	return u, nil
}

// NameTaken reports whether another unit (not excludeID) uses name.
func (r *UnitRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var n int
	err := getOne(ctx, r.db, &n, `SELECT COUNT(*) FROM unit_values WHERE name = ? AND id <> ?`, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("check unit name: %w", err)
	}
	return n > 0, nil
}

// BaseUnitID returns the id of the base unit of unitType other than excludeID.
func (r *UnitRepo) BaseUnitID(ctx context.Context, unitType, excludeID string) (string, bool, error) {
	var ids []string
	err := selectAll(ctx, r.db, &ids, `
		SELECT id FROM unit_values
		WHERE unit_type = ? AND is_base_unit = ? AND id <> ?`, unitType, true, excludeID)
	if err != nil {
		return "", false, fmt.Errorf("find base unit: %w", err)
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

func (r *UnitRepo) List(ctx context.Context, activeOnly bool) ([]domain.UnitValue, error) {
	query := `SELECT ` + unitColumns + ` FROM unit_values`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY unit_type, display_order, name`

	out := []domain.UnitValue{}
	if err := selectAll(ctx, r.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list unit values: %w", err)
	}
	return out, nil
}

func (r *UnitRepo) SetActive(ctx context.Context, id string, active bool, actor string, at time.Time) error {
	n, err := exec(ctx, r.db, `
		UPDATE unit_values SET is_active = ?, last_modified_by = ?, last_modified_on_utc = ?
		WHERE id = ?`, active, actor, at, id)
	if err != nil {
		return fmt.Errorf("set unit active: %w", err)
	}
	if n == 0 {
		return domain.NotFound("unit value", id)
	}
	return nil
}
