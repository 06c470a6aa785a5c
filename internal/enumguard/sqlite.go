package enumguard

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
)

var reTypeName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// SQLite emulates an enum with a lookup table enum_<type>(value, sort_order)
// that columns reference by foreign key.
type SQLite struct {
	db *sqlx.DB
}

func NewSQLite(db *sqlx.DB) *SQLite { return &SQLite{db: db} }

func table(typeName string) (string, error) {
	if !reTypeName.MatchString(typeName) {
		return "", fmt.Errorf("invalid enum type name %q", typeName)
	}
	return `"enum_` + typeName + `"`, nil
}

func (s *SQLite) TypeExists(ctx context.Context, typeName string) (bool, error) {
	if _, err := table(typeName); err != nil {
		return false, err
	}
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, "enum_"+typeName)
	return n > 0, err
}

func (s *SQLite) HasValue(ctx context.Context, typeName, value string) (bool, error) {
	t, err := table(typeName)
	if err != nil {
		return false, err
	}
	var n int
	err = s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+t+` WHERE value = ?`, value)
	return n > 0, err
}

// AddValue appends after the current last value.
func (s *SQLite) AddValue(ctx context.Context, typeName, value string) error {
	t, err := table(typeName)
	if err != nil {
		return err
	}
	// WHERE true disambiguates the upsert clause after INSERT ... SELECT.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+t+`(value, sort_order)
		SELECT ?, COALESCE(MAX(sort_order), 0) + 1 FROM `+t+` WHERE true
		ON CONFLICT(value) DO NOTHING`, value)
	return err
}

func (s *SQLite) Values(ctx context.Context, typeName string) ([]string, error) {
	t, err := table(typeName)
	if err != nil {
		return nil, err
	}
	out := []string{}
	err = s.db.SelectContext(ctx, &out, `SELECT value FROM `+t+` ORDER BY sort_order, value`)
	return out, err
}
