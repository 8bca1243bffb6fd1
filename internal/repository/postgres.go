package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
	"github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	txn_id BIGINT PRIMARY KEY,
	account_id BIGINT NOT NULL,
	counterparty_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	txn_type TEXT NOT NULL,
	reference TEXT,
	created_dt TIMESTAMPTZ NOT NULL,
	failure_status TEXT,
	correlation_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_correlation_id ON transactions(correlation_id);
CREATE TABLE IF NOT EXISTS idempotency (
	key TEXT NOT NULL,
	request_hash TEXT NOT NULL,
	txn_id BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (key, request_hash)
);`

// PostgresRepository stores transactions in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository initializes a repository over an open Postgres connection
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the transactions and idempotency tables if absent
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateTransaction inserts a new transaction, and its idempotency record when
// idem is non-nil, in a single storage transaction
func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *models.Transaction, idem *models.IdempotencyRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, query,
		txn.TxnID, txn.AccountID, txn.CounterpartyID, txn.Amount, txn.TxnType,
		nullString(txn.Reference), txn.CreatedDt,
		nullString(txn.FailureStatus), nullString(txn.CorrelationID))
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if idem != nil {
		const idemQuery = `
			INSERT INTO idempotency (key, request_hash, txn_id, created_at)
			VALUES ($1, $2, $3, $4)`
		_, err = tx.ExecContext(ctx, idemQuery, idem.Key, idem.RequestHash, idem.TxnID, idem.CreatedAt)
		if err != nil {
			if isPostgresUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("failed to insert idempotency record: %w", err)
		}
	}

	return tx.Commit()
}

// GetTransactionByID retrieves a transaction by its primary key
func (r *PostgresRepository) GetTransactionByID(ctx context.Context, txnID int64) (*models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE txn_id = $1`
	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, txnID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %d: %w", txnID, err)
	}
	return txn, nil
}

// ListTransactions returns every stored transaction in insertion order
func (r *PostgresRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

// SumAmountForDay sums the account's amounts over [dayStart, dayEnd)
func (r *PostgresRepository) SumAmountForDay(ctx context.Context, accountID int64, dayStart, dayEnd time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1 AND created_dt >= $2 AND created_dt < $3`
	var total float64
	err := r.db.QueryRowContext(ctx, query, accountID, dayStart.UTC(), dayEnd.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum amounts for account %d: %w", accountID, err)
	}
	return total, nil
}

// FindIdempotencyRecord looks up a prior request by correlation id and hash
func (r *PostgresRepository) FindIdempotencyRecord(ctx context.Context, key, requestHash string) (*models.IdempotencyRecord, error) {
	const query = `
		SELECT key, request_hash, txn_id, created_at
		FROM idempotency
		WHERE key = $1 AND request_hash = $2`
	rec := &models.IdempotencyRecord{}
	err := r.db.QueryRowContext(ctx, query, key, requestHash).
		Scan(&rec.Key, &rec.RequestHash, &rec.TxnID, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}
	return rec, nil
}

// FindIdempotencyRecordByHash looks up a prior request by hash alone
func (r *PostgresRepository) FindIdempotencyRecordByHash(ctx context.Context, requestHash string) (*models.IdempotencyRecord, error) {
	const query = `
		SELECT key, request_hash, txn_id, created_at
		FROM idempotency
		WHERE request_hash = $1
		LIMIT 1`
	rec := &models.IdempotencyRecord{}
	err := r.db.QueryRowContext(ctx, query, requestHash).
		Scan(&rec.Key, &rec.RequestHash, &rec.TxnID, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}
	return rec, nil
}

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

var _ TransactionRepository = (*PostgresRepository)(nil)
