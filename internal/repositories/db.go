package repositories

import (
	"context"
	"errors"
	"fmt"

	"retailstock/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the query surface shared by *pgxpool.Pool, pgx.Tx and the pgxmock
// pool. Repository methods that must join a caller's transaction take one of
// these explicitly; plain reads go through the repository's own handle.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Pool is a Database that can also open transactions.
type Pool interface {
	Database
	Begin(ctx context.Context) (pgx.Tx, error)
}

// lockTimeout bounds every lock wait so no operation blocks indefinitely;
// exceeding it surfaces as a retryable concurrency error.
const lockTimeout = "3s"

// RunInTx brackets fn in a single transaction with a local lock timeout. Any
// error from fn rolls back every write, movement rows included.
func RunInTx(ctx context.Context, db Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", common.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return MapError(err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return MapError(err)
	}
	return nil
}

// MapError classifies a pgx error into the ledger taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40P01", "40001": // lock timeout, deadlock, serialization
			return fmt.Errorf("%w: %s", common.ErrConcurrency, pgErr.Code)
		}
	}
	return fmt.Errorf("%w: %v", common.ErrPersistence, err)
}
