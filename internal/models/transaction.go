package models

import "time"

// Transaction represents a financial movement record
type Transaction struct {
	TxnID          int64     `json:"txn_id"`
	AccountID      int64     `json:"account_id"`
	CounterpartyID string    `json:"counterparty_id"`
	Amount         float64   `json:"amount"`
	TxnType        string    `json:"txn_type"`
	Reference      string    `json:"reference,omitempty"`
	CreatedDt      Timestamp `json:"created_dt"`
	FailureStatus  string    `json:"failure_status,omitempty"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
}

// IdempotencyRecord maps a correlation id and request hash to the transaction
// it first created. A repeated request with the same pair is a replay.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	TxnID       int64
	CreatedAt   time.Time
}
