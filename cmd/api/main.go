package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/config"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/handler"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/metrics"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/middleware"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/repository"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
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

	// Initialize layers
	m := metrics.New()
	svc := service.NewService(repo, logger, cfg, m)
	h := handler.NewHandler(svc)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	h.RegisterRoutes(r)
	r.Handle("/metrics", m.Handler()).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s (driver=%s)", addr, cfg.DBDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

// newRepository picks the repository for the configured driver and creates
// the schema if it does not exist yet.
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
