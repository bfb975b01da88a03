package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// txWrapper is implemented by databases that instrument transaction statements.
type txWrapper interface {
	WrapTx(tx *sqlx.Tx) Queryer
}

// Conn returns the transaction carried by ctx, or db when there is none.
// Every store statement goes through Conn so that it joins a caller's transaction.
func Conn(ctx context.Context, db SQLDB) Queryer {
	if q, ok := ctx.Value(txKey{}).(Queryer); ok {
		return q
	}
	return db
}

// InTx runs fn inside a transaction. When ctx already carries one, fn joins it
// and the outermost caller decides commit or rollback.
// PRE: db is a valid database connection
// POST: all statements issued through Conn(ctx, ...) in fn commit together or not at all
func InTx(ctx context.Context, db SQLDB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(Queryer); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	var q Queryer = tx
	if w, ok := db.(txWrapper); ok {
		q = w.WrapTx(tx)
	}

	if err := fn(context.WithValue(ctx, txKey{}, q)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Transactor adapts InTx to the TxRunner port used by orchestrators.
type Transactor struct {
	db SQLDB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db SQLDB) *Transactor {
	return &Transactor{db: db}
}

// InTx runs fn inside a transaction on the wrapped database.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return InTx(ctx, t.db, fn)
}
