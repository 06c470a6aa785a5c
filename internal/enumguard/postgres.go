package enumguard

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres works on native ENUM types visible on the search path.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) TypeExists(ctx context.Context, typeName string) (bool, error) {
	var ok bool
	err := p.db.GetContext(ctx, &ok, `
		SELECT EXISTS (
			SELECT 1
			FROM pg_type t
			JOIN pg_namespace n ON n.oid = t.typnamespace
			WHERE t.typname = $1 AND t.typtype = 'e' AND n.nspname = ANY(current_schemas(false))
		)`, typeName)
	return ok, err
}

func (p *Postgres) HasValue(ctx context.Context, typeName, value string) (bool, error) {
	var ok bool
	err := p.db.GetContext(ctx, &ok, `
		SELECT EXISTS (
			SELECT 1
			FROM pg_enum e
			JOIN pg_type t ON t.oid = e.enumtypid
			JOIN pg_namespace n ON n.oid = t.typnamespace
			WHERE t.typname = $1 AND e.enumlabel = $2 AND n.nspname = ANY(current_schemas(false))
		)`, typeName, value)
	return ok, err
}

// AddValue uses IF NOT EXISTS so two instances racing on the same value
// both succeed.
func (p *Postgres) AddValue(ctx context.Context, typeName, value string) error {
	_, err := p.db.ExecContext(ctx,
		`ALTER TYPE `+pq.QuoteIdentifier(typeName)+` ADD VALUE IF NOT EXISTS `+pq.QuoteLiteral(value))
	return err
}

func (p *Postgres) Values(ctx context.Context, typeName string) ([]string, error) {
	out := []string{}
	err := p.db.SelectContext(ctx, &out, `
		SELECT e.enumlabel
		FROM pg_enum e
		JOIN pg_type t ON t.oid = e.enumtypid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE t.typname = $1 AND n.nspname = ANY(current_schemas(false))
		ORDER BY e.enumsortorder`, typeName)
	return out, err
}
