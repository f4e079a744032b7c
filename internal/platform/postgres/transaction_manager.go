package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager opens database transactions for services that
// need several repository writes to land or fail together, such as a
// workflow transition plus its audit entry.
type TransactionManager interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction is an open transaction. Tx exposes the underlying pgx
// handle so repositories can be rebound onto it via WithTx.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Tx() pgx.Tx
}

// PoolTransactionManager implements TransactionManager over the shared
// connection pool
type PoolTransactionManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a pool-backed transaction manager
func NewTransactionManager(pool *pgxpool.Pool) TransactionManager {
	return &PoolTransactionManager{pool: pool}
}

// BeginTx starts a transaction on the pool
func (m *PoolTransactionManager) BeginTx(ctx context.Context) (Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PgxTransaction{tx: tx}, nil
}

// PgxTransaction adapts pgx.Tx to the Transaction interface
type PgxTransaction struct {
	tx pgx.Tx
}

func (t *PgxTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PgxTransaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *PgxTransaction) Tx() pgx.Tx {
	return t.tx
}
