package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/ledger"
	"github.com/finflow/backend/internal/users"
)

func newTxRig(t *testing.T) (*gin.Engine, *fakeTxs, *users.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	current := &users.User{ID: uuid.New(), Name: "Ada", IsActive: true}
	txs := newFakeTxs()
	h := NewTransactionsHandler(zap.NewNop(), txs)

	r := gin.New()
	g := r.Group("/api/transactions", withUser(current))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	return r, txs, current
}

func TestCreateTransactionNormalizesExpenseSign(t *testing.T) {
	r, _, _ := newTxRig(t)

	w := postJSON(r, "/api/transactions", `{
		"name": "Groceries",
		"amount": 120,
		"type": "expense",
		"category": "Food",
		"date": "2026-08-01T10:00:00Z"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got ledger.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(-120), got.Amount)
}

func TestCreateTransactionNormalizesIncomeSign(t *testing.T) {
	r, _, _ := newTxRig(t)

	w := postJSON(r, "/api/transactions", `{
		"name": "Salary",
		"amount": -3000,
		"type": "income",
		"category": "Salary",
		"date": "2026-08-01T10:00:00Z"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got ledger.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(3000), got.Amount)
}

func TestGetTransactionScopedToOwner(t *testing.T) {
	r, txs, _ := newTxRig(t)

	// Belongs to somebody else.
	other, err := txs.Create(context.Background(), uuid.New(), ledger.CreateParams{
		Name: "Secret", Amount: -1, Type: ledger.TypeOutcome, Category: "Other", Date: time.Now(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions/"+other.ID.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail": "Transaction not found or not owned by user"}`, w.Body.String())
}

func TestDeleteTransaction(t *testing.T) {
	r, txs, current := newTxRig(t)

	tx, err := txs.Create(context.Background(), current.ID, ledger.CreateParams{
		Name: "Groceries", Amount: -120, Type: ledger.TypeOutcome, Category: "Food", Date: time.Now(),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+tx.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone now.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/transactions/"+tx.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTransactionBadID(t *testing.T) {
	r, _, _ := newTxRig(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions/not-a-uuid", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
