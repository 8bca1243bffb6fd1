package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/models"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/repository"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/service"
	"github.com/gorilla/mux"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches the transaction endpoints to the router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	r.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	r.HandleFunc("/transactions/{txn_id}", h.GetTransaction).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

// createTransactionRequest uses pointers for the required fields so a missing
// field is distinguishable from a zero value.
type createTransactionRequest struct {
	TxnID          *int64            `json:"txn_id"`
	AccountID      *int64            `json:"account_id"`
	CounterpartyID string            `json:"counterparty_id"`
	Amount         *float64          `json:"amount"`
	TxnType        string            `json:"txn_type"`
	Reference      string            `json:"reference"`
	CreatedDt      *models.Timestamp `json:"created_dt"`
	CorrelationID  string            `json:"correlation_id"`
}

func (req *createTransactionRequest) missingField() string {
	switch {
	case req.TxnID == nil:
		return "txn_id"
	case req.AccountID == nil:
		return "account_id"
	case req.CounterpartyID == "":
		return "counterparty_id"
	case req.Amount == nil:
		return "amount"
	case req.TxnType == "":
		return "txn_type"
	case req.CreatedDt == nil || req.CreatedDt.IsZero():
		return "created_dt"
	}
	return ""
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if field := req.missingField(); field != "" {
		writeError(w, http.StatusBadRequest, "Missing required field: "+field)
		return
	}

	txn := &models.Transaction{
		TxnID:          *req.TxnID,
		AccountID:      *req.AccountID,
		CounterpartyID: req.CounterpartyID,
		Amount:         *req.Amount,
		TxnType:        req.TxnType,
		Reference:      req.Reference,
		CreatedDt:      *req.CreatedDt,
		CorrelationID:  req.CorrelationID,
	}

	created, err := h.svc.CreateTransaction(r.Context(), txn)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTransactions handles GET /transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction handles GET /transactions/{txn_id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txnID, err := strconv.ParseInt(mux.Vars(r)["txn_id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	txn, err := h.svc.GetTransaction(r.Context(), txnID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps the error taxonomy onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var duplicateErr *service.DuplicateRequestError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &duplicateErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":           "duplicate transaction",
			"original_txn_id": duplicateErr.OriginalTxnID,
		})
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "transaction already exists")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
