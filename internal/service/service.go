package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/config"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/metrics"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/middleware"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/repository"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	repo    repository.TransactionRepository
	log     *logrus.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewService initializes a new service
func NewService(repo repository.TransactionRepository, log *logrus.Logger, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{repo: repo, log: log, config: cfg, metrics: m}
}

// CreateTransaction validates and persists a new transaction. The row is
// written exactly once; a duplicate txn_id or a replayed correlation_id
// request is rejected without persisting anything.
func (s *Service) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := validateTransaction(txn); err != nil {
		s.metrics.FailedTransactionsTotal.Inc()
		return nil, err
	}

	if err := s.checkDailyLimit(ctx, txn); err != nil {
		s.metrics.FailedTransactionsTotal.Inc()
		return nil, err
	}

	var idem *models.IdempotencyRecord
	if txn.CorrelationID != "" {
		hash := RequestHash(txn)
		existing, err := s.repo.FindIdempotencyRecord(ctx, txn.CorrelationID, hash)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":      middleware.RequestIDFromContext(ctx),
				"correlation_id":  txn.CorrelationID,
				"original_txn_id": existing.TxnID,
			}).Warn("Duplicate request")
			s.metrics.FailedTransactionsTotal.Inc()
			return nil, &DuplicateRequestError{OriginalTxnID: existing.TxnID}
		}
		idem = &models.IdempotencyRecord{
			Key:         txn.CorrelationID,
			RequestHash: hash,
			TxnID:       txn.TxnID,
			CreatedAt:   time.Now().UTC(),
		}
	}

	if err := s.repo.CreateTransaction(ctx, txn, idem); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			s.log.Errorf("Failed to persist transaction %d: %v", txn.TxnID, err)
		}
		s.metrics.FailedTransactionsTotal.Inc()
		return nil, err
	}

	s.metrics.TransactionsTotal.WithLabelValues(txn.TxnType).Inc()
	s.log.Infof("Transaction created: %d (%s)", txn.TxnID, txn.TxnType)
	return txn, nil
}

// GetTransaction returns the transaction with the given id or
// repository.ErrNotFound
func (s *Service) GetTransaction(ctx context.Context, txnID int64) (*models.Transaction, error) {
	return s.repo.GetTransactionByID(ctx, txnID)
}

// ListTransactions returns all stored transactions
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// checkDailyLimit rejects the transaction when the account's total for the
// UTC day of created_dt would exceed the configured limit.
func (s *Service) checkDailyLimit(ctx context.Context, txn *models.Transaction) error {
	dayStart := txn.CreatedDt.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	total, err := s.repo.SumAmountForDay(ctx, txn.AccountID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to check daily limit: %w", err)
	}
	if total+txn.Amount > s.config.DailyLimit {
		return newValidationError("daily transaction limit of %v exceeded for account %d", s.config.DailyLimit, txn.AccountID)
	}
	return nil
}

func validateTransaction(txn *models.Transaction) error {
	switch {
	case txn.TxnID <= 0:
		return newValidationError("txn_id must be a positive integer")
	case txn.AccountID <= 0:
		return newValidationError("account_id must be a positive integer")
	case txn.CounterpartyID == "":
		return newValidationError("counterparty_id is required")
	case math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0):
		return newValidationError("amount must be a finite number")
	case txn.TxnType == "":
		return newValidationError("txn_type is required")
	case txn.CreatedDt.IsZero():
		return newValidationError("created_dt is required")
	}
	return nil
}

// RequestHash derives the idempotency hash from every request field except
// correlation_id, so the same correlation_id with a different payload is a
// new request rather than a replay.
func RequestHash(txn *models.Transaction) string {
	canonical := fmt.Sprintf(
		"account_id=%d|amount=%s|counterparty_id=%s|created_dt=%s|reference=%s|txn_id=%d|txn_type=%s",
		txn.AccountID,
		strconv.FormatFloat(txn.Amount, 'f', -1, 64),
		txn.CounterpartyID,
		txn.CreatedDt.UTC().Format(time.RFC3339Nano),
		txn.Reference,
		txn.TxnID,
		txn.TxnType,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
