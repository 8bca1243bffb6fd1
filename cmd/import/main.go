package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/config"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/repository"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/service"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// csvDateLayout matches the 'DD-MM-YYYY HH:MM' dates the export files carry.
const csvDateLayout = "02-01-2006 15:04"

type importStats struct {
	imported int
	skipped  int
	failed   int
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	filePath := flag.String("file", cfg.CSVFile, "path to the transactions CSV file")
	flag.Parse()

	db, err := sql.Open(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo, err := newRepository(cfg.DBDriver, db)
	if err != nil {
		logger.Fatalf("Failed to initialize schema: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		logger.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	stats, err := importTransactions(context.Background(), repo, file, logger)
	if err != nil {
		logger.Fatalf("Import aborted: %v", err)
	}
	logger.Infof("Import finished: %d imported, %d skipped, %d failed", stats.imported, stats.skipped, stats.failed)
}

func newRepository(driver string, db *sql.DB) (repository.TransactionRepository, error) {
	ctx := context.Background()
	switch driver {
	case config.DriverPostgres:
		repo := repository.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		repo := repository.NewSQLiteRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}
}

// importTransactions reads the CSV and inserts each row through the
// repository. Rows whose txn_id already exists are skipped, so re-running the
// import is harmless.
func importTransactions(ctx context.Context, repo repository.TransactionRepository, r io.Reader, logger *logrus.Logger) (importStats, error) {
	var stats importStats

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read CSV record: %w", err)
		}

		txn, err := parseRecord(columns, record)
		if err != nil {
			logger.Warnf("Skipping line %d: %v", line, err)
			stats.failed++
			continue
		}

		// The reference is the stable request hash when present; otherwise
		// the row's canonical fields are hashed.
		hash := txn.Reference
		if hash == "" {
			hash = service.RequestHash(txn)
		}

		// Reuse the correlation id of a previously ingested row with the
		// same hash; otherwise keep the CSV value or mint one.
		existing, err := repo.FindIdempotencyRecordByHash(ctx, hash)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return stats, fmt.Errorf("failed to look up idempotency record: %w", err)
		}
		switch {
		case existing != nil:
			txn.CorrelationID = existing.Key
		case txn.CorrelationID == "":
			txn.CorrelationID = uuid.NewString()
		}

		idem := &models.IdempotencyRecord{
			Key:         txn.CorrelationID,
			RequestHash: hash,
			TxnID:       txn.TxnID,
			CreatedAt:   time.Now().UTC(),
		}
		err = repo.CreateTransaction(ctx, txn, idem)
		switch {
		case errors.Is(err, repository.ErrConflict):
			logger.Debugf("Line %d: transaction %d already imported", line, txn.TxnID)
			stats.skipped++
		case err != nil:
			logger.Warnf("Line %d: failed to insert transaction %d: %v", line, txn.TxnID, err)
			stats.failed++
		default:
			stats.imported++
		}
	}
	return stats, nil
}

func parseRecord(columns map[string]int, record []string) (*models.Transaction, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	txnID, err := strconv.ParseInt(field("txn_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid txn_id %q", field("txn_id"))
	}
	accountID, err := strconv.ParseInt(field("account_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id %q", field("account_id"))
	}
	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", field("amount"))
	}
	// export files name the timestamp column created_at
	createdRaw := field("created_at")
	if createdRaw == "" {
		createdRaw = field("created_dt")
	}
	createdDt, err := time.Parse(csvDateLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q", createdRaw)
	}

	return &models.Transaction{
		TxnID:          txnID,
		AccountID:      accountID,
		CounterpartyID: field("counterparty_id"),
		Amount:         amount,
		TxnType:        field("txn_type"),
		Reference:      field("reference"),
		CreatedDt:      models.NewTimestamp(createdDt),
		FailureStatus:  field("failure_status"),
		CorrelationID:  field("correlation_id"),
	}, nil
}
