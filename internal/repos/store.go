package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store groups the repositories over one handle: the pool, or a transaction
// inside InTx.
type Store struct {
	db *sqlx.DB
	tx *sqlx.Tx

	Units      *UnitRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Variants   *VariantRepo
	Orders     *OrderRepo
}

func NewStore(db *sqlx.DB) *Store {
	return bindStore(db, nil, db)
}

func bindStore(db *sqlx.DB, tx *sqlx.Tx, ext sqlx.ExtContext) *Store {
	return &Store{
		db:         db,
		tx:         tx,
		Units:      NewUnitRepo(ext),
		Categories: NewCategoryRepo(ext),
		Products:   NewProductRepo(ext),
		Variants:   NewVariantRepo(ext),
		Orders:     NewOrderRepo(ext),
	}
}

func (s *Store) DB() *sqlx.DB { return s.db }

// InTx runs fn against a transaction-bound Store and commits when fn returns
// nil. Nested calls reuse the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(bindStore(s.db, tx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func getOne(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func selectAll(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
