package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

// fakeAPI stands in for the finance REST API during client tests.
func fakeAPI(t *testing.T) (*chi.Mux, *api.Client) {
	t.Helper()

	router := chi.NewRouter()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return router, api.New(srv.URL, 5*time.Second, zap.NewNop())
}

func TestClient_UploadCSV(t *testing.T) {
	router, client := fakeAPI(t)

	router.Post("/api/transactions/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "bank.csv", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Contains(t, string(content), "date,description,amount")

		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Successfully uploaded 2 transactions",
		})
	})

	csv := "date,description,amount\n2025-01-02,Coffee,-3.50\n2025-01-03,Salary,2000\n"

	msg, err := client.UploadCSV(context.Background(), "bank.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "Successfully uploaded 2 transactions", msg)
}

func TestClient_UploadCSV_ServerDetail(t *testing.T) {
	router, client := fakeAPI(t)

	router.Post("/api/transactions/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "File must be a CSV"})
	})

	_, err := client.UploadCSV(context.Background(), "bank.txt", strings.NewReader("x"))
	require.Error(t, err)

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "File must be a CSV", statusErr.Detail)
}

func TestClient_ListTransactions(t *testing.T) {
	router, client := fakeAPI(t)

	router.Get("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("skip"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "3", r.URL.Query().Get("category_id"))

		_, _ = w.Write([]byte(`[
			{"id": 1, "date": "2025-05-01T00:00:00", "description": "Groceries", "amount": -42.10, "category_id": 3},
			{"id": 2, "date": "2025-05-02", "description": "Refund", "amount": 12.00}
		]`))
	})

	categoryID := 3

	txs, err := client.ListTransactions(context.Background(), api.ListParams{
		Skip:       10,
		Limit:      50,
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1, txs[0].ID)
	assert.Equal(t, "Groceries", txs[0].Description)
	assert.InDelta(t, -42.10, txs[0].Amount, 0.001)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), txs[0].Date.Time)

	// Bare-date form parses too.
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), txs[1].Date.Time)
	assert.Nil(t, txs[1].CategoryID)
}

func TestClient_ListTransactions_NoFilters(t *testing.T) {
	router, client := fakeAPI(t)

	router.Get("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})

	txs, err := client.ListTransactions(context.Background(), api.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestClient_UpdateTransaction(t *testing.T) {
	router, client := fakeAPI(t)

	router.Put("/api/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", chi.URLParam(r, "id"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 2, body["category_id"])

		_, _ = w.Write([]byte(`{"id": 7, "date": "2025-05-01T00:00:00", "description": "Cinema", "amount": -15, "category_id": 2}`))
	})

	tx, err := client.UpdateTransaction(context.Background(), 7, api.UpdateParams{CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, 7, tx.ID)
	require.NotNil(t, tx.CategoryID)
	assert.Equal(t, 2, *tx.CategoryID)
}

func TestClient_DashboardSummary(t *testing.T) {
	router, client := fakeAPI(t)

	router.Get("/api/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"total_expenses": 321.50,
			"total_transactions": 12,
			"expenses_by_category": [{"category": "Groceries", "total_amount": 100.5, "transaction_count": 4}],
			"monthly_expenses": [{"year": 2025, "month": 5, "total_amount": 321.50}]
		}`))
	})

	summary, err := client.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 321.50, summary.TotalExpenses, 0.001)
	assert.Equal(t, 12, summary.TotalTransactions)
	require.Len(t, summary.ExpensesByCategory, 1)
	assert.Equal(t, "Groceries", summary.ExpensesByCategory[0].Category)
	require.Len(t, summary.MonthlyExpenses, 1)
	assert.Equal(t, 5, summary.MonthlyExpenses[0].Month)
}

func TestClient_QueryCopilot(t *testing.T) {
	router, client := fakeAPI(t)

	router.Post("/api/copilot/query", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "How much did I spend on groceries?", body["question"])

		_, _ = w.Write([]byte(`{"answer": "You spent $100.50 on groceries.", "data": {"category": "Groceries"}}`))
	})

	answer, err := client.QueryCopilot(context.Background(), "How much did I spend on groceries?")
	require.NoError(t, err)
	assert.Equal(t, "You spent $100.50 on groceries.", answer.Answer)
	assert.Equal(t, "Groceries", answer.Data["category"])
}

func TestClient_QueryCopilot_EmptyQuestion(t *testing.T) {
	_, client := fakeAPI(t)

	_, err := client.QueryCopilot(context.Background(), "   ")
	assert.Error(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	router, client := fakeAPI(t)

	router.Get("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	})

	_, err := client.ListTransactions(context.Background(), api.ListParams{})

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Not authenticated", statusErr.Detail)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	router, client := fakeAPI(t)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.Health(context.Background())

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Detail)
}

func TestClient_Timeout(t *testing.T) {
	router := chi.NewRouter()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	client := api.New(srv.URL, 20*time.Millisecond, zap.NewNop())

	_, err := client.Health(context.Background())
	require.Error(t, err)

	var statusErr *api.StatusError
	assert.False(t, errors.As(err, &statusErr), "timeouts are transport errors, not status errors")
}
