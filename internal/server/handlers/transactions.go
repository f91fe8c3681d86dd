package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/ledger"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/server/resp"
)

const detailTxNotFound = "Transaction not found or not owned by user"

// TransactionStore is the slice of the ledger repo the handler needs.
type TransactionStore interface {
	Create(ctx context.Context, userID uuid.UUID, p ledger.CreateParams) (*ledger.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]ledger.Transaction, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type TransactionsHandler struct {
	logger *zap.Logger
	txs    TransactionStore
}

func NewTransactionsHandler(logger *zap.Logger, txStore TransactionStore) *TransactionsHandler {
	return &TransactionsHandler{logger: logger, txs: txStore}
}

type createTransactionReq struct {
	Name     string    `json:"name" binding:"required,max=100"`
	Amount   int64     `json:"amount" binding:"required"`
	Type     string    `json:"type" binding:"required,max=50"`
	Category string    `json:"category" binding:"required,max=50"`
	Date     time.Time `json:"date" binding:"required"`
}

func (h *TransactionsHandler) Create(c *gin.Context) {
	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user := mw.CurrentUser(c)
	t, err := h.txs.Create(c.Request.Context(), user.ID, ledger.CreateParams{
		Name:     req.Name,
		Amount:   ledger.NormalizeAmount(req.Type, req.Amount),
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		h.logger.Error("transaction create failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	h.logger.Info("transaction created",
		zap.String("user_id", user.ID.String()),
		zap.String("transaction_id", t.ID.String()),
	)
	c.JSON(http.StatusCreated, t)
}

func (h *TransactionsHandler) List(c *gin.Context) {
	user := mw.CurrentUser(c)
	skip, limit := pagination(c, 100)

	items, err := h.txs.ListByUser(c.Request.Context(), user.ID, skip, limit)
	if err != nil {
		h.logger.Error("transaction list failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *TransactionsHandler) Get(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailTxNotFound)
		return
	}

	t, err := h.txs.FindByID(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			h.logger.Warn("transaction access denied",
				zap.String("user_id", user.ID.String()),
				zap.String("transaction_id", id.String()),
			)
			resp.Error(c, http.StatusNotFound, detailTxNotFound)
			return
		}
		h.logger.Error("transaction get failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransactionsHandler) Delete(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailTxNotFound)
		return
	}

	if err := h.txs.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, detailTxNotFound)
			return
		}
		h.logger.Error("transaction delete failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	h.logger.Info("transaction deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("transaction_id", id.String()),
	)
	c.Status(http.StatusNoContent)
}

// pagination reads skip/limit query params; limit is clamped to max.
func pagination(c *gin.Context, max int) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(max)))
	if limit <= 0 || limit > max {
		limit = max
	}
	return skip, limit
}
