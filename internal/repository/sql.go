package repository

import (
	"database/sql"
	"fmt"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
)

const transactionColumns = `txn_id, account_id, counterparty_id, amount, txn_type, reference, created_dt, failure_status, correlation_id`

// scanTransaction reads one row in transactionColumns order.
func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var reference, failureStatus, correlationID sql.NullString
	err := row.Scan(
		&txn.TxnID,
		&txn.AccountID,
		&txn.CounterpartyID,
		&txn.Amount,
		&txn.TxnType,
		&reference,
		&txn.CreatedDt,
		&failureStatus,
		&correlationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.Reference = reference.String
	txn.FailureStatus = failureStatus.String
	txn.CorrelationID = correlationID.String
	return txn, nil
}

// nullString maps empty strings to NULL so optional columns stay nullable.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
