package repository

import (
	"context"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
)

// TransactionRepository provides database operations over transaction rows.
// Implementations exist for SQLite (the default engine), Postgres and an
// in-memory store, so the backing engine is swappable without touching the
// handler layer.
type TransactionRepository interface {
	// CreateTransaction inserts a new row. When idem is non-nil the
	// idempotency record is written in the same storage transaction as the
	// row itself. A duplicate txn_id yields ErrConflict.
	CreateTransaction(ctx context.Context, txn *models.Transaction, idem *models.IdempotencyRecord) error

	// GetTransactionByID returns the matching row or ErrNotFound.
	GetTransactionByID(ctx context.Context, txnID int64) (*models.Transaction, error)

	// ListTransactions returns all rows. Order is not part of the contract;
	// implementations return insertion order.
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	// SumAmountForDay returns the sum of amounts for the account over
	// [dayStart, dayEnd).
	SumAmountForDay(ctx context.Context, accountID int64, dayStart, dayEnd time.Time) (float64, error)

	// FindIdempotencyRecord returns the record for the key and request hash,
	// or ErrNotFound.
	FindIdempotencyRecord(ctx context.Context, key, requestHash string) (*models.IdempotencyRecord, error)

	// FindIdempotencyRecordByHash returns a record matching the request hash
	// regardless of its key, or ErrNotFound. The importer uses it to reuse
	// the correlation id of a previously ingested row.
	FindIdempotencyRecordByHash(ctx context.Context, requestHash string) (*models.IdempotencyRecord, error)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
