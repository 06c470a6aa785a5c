// Package enumguard adds missing values to persisted enumeration types.
//
// The guard is append-only and idempotent: it checks each value before
// adding it, never removes or reorders values, and treats a missing type as
// nothing to do. A value that cannot be added becomes a warning; the rest
// are still processed and the caller is never asked to abort.
package enumguard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

// Dialect is the storage-specific half of the guard. It deliberately has no
// way to remove a value.
type Dialect interface {
	TypeExists(ctx context.Context, typeName string) (bool, error)
	HasValue(ctx context.Context, typeName, value string) (bool, error)
	AddValue(ctx context.Context, typeName, value string) error
	Values(ctx context.Context, typeName string) ([]string, error)
}

type Report struct {
	Type     string                     `json:"type"`
	Skipped  bool                       `json:"skipped"`
	Added    []string                   `json:"added"`
	Present  []string                   `json:"present"`
	Failed   []string                   `json:"failed"`
	Warnings []*domain.MigrationWarning `json:"-"`
}

// OK reports whether every value is now present.
func (r Report) OK() bool { return len(r.Warnings) == 0 }

type Guard struct {
	dialect Dialect
}

func New(d Dialect) *Guard { return &Guard{dialect: d} }

// DialectFor picks the dialect matching the handle's driver.
func DialectFor(db *sqlx.DB) (Dialect, error) {
	switch db.DriverName() {
	case "postgres":
		return NewPostgres(db), nil
	case "sqlite":
		return NewSQLite(db), nil
	}
	return nil, fmt.Errorf("enumguard: unsupported driver %q", db.DriverName())
}

// Run makes sure typeName contains every value in values.
func (g *Guard) Run(ctx context.Context, typeName string, values []string) Report {
	rep := Report{Type: typeName, Added: []string{}, Present: []string{}, Failed: []string{}}

	exists, err := g.dialect.TypeExists(ctx, typeName)
	if err != nil {
		rep.warn(typeName, "", fmt.Errorf("check type: %w", err))
		return rep
	}
	if !exists {
		rep.Skipped = true
		applog.Info(nil, "enum_guard_skipped", map[string]any{"type": typeName, "reason": "type does not exist"})
		return rep
	}

	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			rep.warn(typeName, v, errors.New("empty value"))
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true

		has, err := g.dialect.HasValue(ctx, typeName, v)
		if err != nil {
			rep.warn(typeName, v, fmt.Errorf("check value: %w", err))
			continue
		}
		if has {
			rep.Present = append(rep.Present, v)
			continue
		}
		if err := g.dialect.AddValue(ctx, typeName, v); err != nil {
			rep.warn(typeName, v, fmt.Errorf("add value: %w", err))
			continue
		}
		rep.Added = append(rep.Added, v)
	}

	applog.Info(nil, "enum_guard_done", map[string]any{
		"type":     typeName,
		"added":    rep.Added,
		"present":  len(rep.Present),
		"warnings": len(rep.Warnings),
	})
	return rep
}

func (r *Report) warn(typeName, value string, err error) {
	w := &domain.MigrationWarning{Type: typeName, Value: value, Err: err}
	r.Warnings = append(r.Warnings, w)
	r.Failed = append(r.Failed, value)
	applog.Warn(nil, "enum_guard_value_failed", w, map[string]any{"type": typeName, "value": value})
}
