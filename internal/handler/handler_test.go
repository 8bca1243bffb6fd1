package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SaiPreethiAsuri/transaction-microservice/internal/config"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/metrics"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/repository"
	"github.com/SaiPreethiAsuri/transaction-microservice/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func newTestRouter() *mux.Router {
	repo := repository.NewMemoryRepository()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{DailyLimit: 200000}
	svc := service.NewService(repo, logger, cfg, metrics.New())

	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const samplePayload = `{
	"txn_id": 1,
	"account_id": 123,
	"counterparty_id": "abc",
	"amount": 100.0,
	"txn_type": "transfer",
	"reference": "REF123",
	"created_dt": "2025-11-06T12:00:00",
	"correlation_id": "uuid-example"
}`

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return body
}

func assertSampleTransaction(t *testing.T, body map[string]any) {
	t.Helper()
	want := map[string]any{
		"txn_id":          float64(1),
		"account_id":      float64(123),
		"counterparty_id": "abc",
		"amount":          float64(100),
		"txn_type":        "transfer",
		"reference":       "REF123",
		"created_dt":      "2025-11-06T12:00:00Z",
		"correlation_id":  "uuid-example",
	}
	for key, val := range want {
		if body[key] != val {
			t.Errorf("%s: got %v, want %v", key, body[key], val)
		}
	}
}

func TestCreateThenGetScenario(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "POST", "/transactions", samplePayload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	assertSampleTransaction(t, decodeBody(t, rec))

	rec = doRequest(t, router, "GET", "/transactions/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET: expected 200, got %d", rec.Code)
	}
	assertSampleTransaction(t, decodeBody(t, rec))

	rec = doRequest(t, router, "GET", "/transactions/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET missing: expected 404, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "not found" {
		t.Errorf("expected error body, got %s", rec.Body.String())
	}
}

func TestCreateMissingRequiredField(t *testing.T) {
	fields := []string{"txn_id", "account_id", "counterparty_id", "amount", "txn_type", "created_dt"}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			router := newTestRouter()

			var payload map[string]any
			if err := json.Unmarshal([]byte(samplePayload), &payload); err != nil {
				t.Fatal(err)
			}
			delete(payload, field)
			body, _ := json.Marshal(payload)

			rec := doRequest(t, router, "POST", "/transactions", string(body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if msg, _ := decodeBody(t, rec)["error"].(string); !strings.Contains(msg, field) {
				t.Errorf("error %q does not name the field", msg)
			}

			// nothing may be persisted
			rec = doRequest(t, router, "GET", "/transactions", "")
			var txns []any
			if err := json.Unmarshal(rec.Body.Bytes(), &txns); err != nil || len(txns) != 0 {
				t.Errorf("expected empty list, got %s", rec.Body.String())
			}
		})
	}
}

func TestCreateInvalidBody(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{"not json", `{"created_dt": "06-11-2025"}`} {
		rec := doRequest(t, router, "POST", "/transactions", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateDuplicateTxnID(t *testing.T) {
	router := newTestRouter()

	payload := `{"txn_id": 1, "account_id": 123, "counterparty_id": "abc", "amount": 10,
		"txn_type": "deposit", "created_dt": "2025-11-06T12:00:00Z"}`
	if rec := doRequest(t, router, "POST", "/transactions", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first POST: expected 201, got %d", rec.Code)
	}
	rec := doRequest(t, router, "POST", "/transactions", payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second POST: expected 409, got %d", rec.Code)
	}
}

func TestCreateIdempotencyReplay(t *testing.T) {
	router := newTestRouter()

	if rec := doRequest(t, router, "POST", "/transactions", samplePayload); rec.Code != http.StatusCreated {
		t.Fatalf("first POST: expected 201, got %d", rec.Code)
	}
	// identical correlation_id and payload is a replay, not a new transaction
	rec := doRequest(t, router, "POST", "/transactions", samplePayload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("replay: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["original_txn_id"] != float64(1) {
		t.Errorf("expected original_txn_id 1, got %v", body["original_txn_id"])
	}
}

func TestListTransactions(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/transactions", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty list: got %d %s", rec.Code, rec.Body.String())
	}

	payload := `{"txn_id": %d, "account_id": 123, "counterparty_id": "abc", "amount": 10,
		"txn_type": "deposit", "created_dt": "2025-11-06T12:00:00Z"}`
	for _, id := range []string{
		strings.Replace(payload, "%d", "1", 1),
		strings.Replace(payload, "%d", "2", 1),
		strings.Replace(payload, "%d", "3", 1),
	} {
		if rec := doRequest(t, router, "POST", "/transactions", id); rec.Code != http.StatusCreated {
			t.Fatalf("POST: expected 201, got %d", rec.Code)
		}
	}

	rec = doRequest(t, router, "GET", "/transactions", "")
	var txns []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &txns); err != nil {
		t.Fatalf("invalid list body: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	for i, txn := range txns {
		if txn["txn_id"] != float64(i+1) {
			t.Errorf("row %d: got txn_id %v", i, txn["txn_id"])
		}
	}
}

func TestGetMalformedID(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(t, router, "GET", "/transactions/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	rec := doRequest(t, router, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["status"] != "ok" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
