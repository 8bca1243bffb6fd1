package repository

import (
	"context"
	"sync"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
)

// MemoryRepository is an in-memory TransactionRepository. It is safe for
// concurrent use and backs the test suite.
type MemoryRepository struct {
	mu    sync.Mutex
	txns  []models.Transaction
	byID  map[int64]int
	idems map[string]models.IdempotencyRecord
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[int64]int),
		idems: make(map[string]models.IdempotencyRecord),
	}
}

func idemMapKey(key, requestHash string) string {
	return key + "\x00" + requestHash
}

func (m *MemoryRepository) CreateTransaction(ctx context.Context, txn *models.Transaction, idem *models.IdempotencyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[txn.TxnID]; exists {
		return ErrConflict
	}
	if idem != nil {
		if _, exists := m.idems[idemMapKey(idem.Key, idem.RequestHash)]; exists {
			return ErrConflict
		}
		m.idems[idemMapKey(idem.Key, idem.RequestHash)] = *idem
	}
	m.byID[txn.TxnID] = len(m.txns)
	m.txns = append(m.txns, *txn)
	return nil
}

func (m *MemoryRepository) GetTransactionByID(ctx context.Context, txnID int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, exists := m.byID[txnID]
	if !exists {
		return nil, ErrNotFound
	}
	txn := m.txns[idx]
	return &txn, nil
}

func (m *MemoryRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// copy so callers cannot mutate internal state
	copied := make([]models.Transaction, len(m.txns))
	copy(copied, m.txns)
	return copied, nil
}

func (m *MemoryRepository) SumAmountForDay(ctx context.Context, accountID int64, dayStart, dayEnd time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total float64
	for _, txn := range m.txns {
		if txn.AccountID != accountID {
			continue
		}
		created := txn.CreatedDt.Time
		if !created.Before(dayStart) && created.Before(dayEnd) {
			total += txn.Amount
		}
	}
	return total, nil
}

func (m *MemoryRepository) FindIdempotencyRecord(ctx context.Context, key, requestHash string) (*models.IdempotencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.idems[idemMapKey(key, requestHash)]
	if !exists {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryRepository) FindIdempotencyRecordByHash(ctx context.Context, requestHash string) (*models.IdempotencyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.idems {
		if rec.RequestHash == requestHash {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

var _ TransactionRepository = (*MemoryRepository)(nil)
