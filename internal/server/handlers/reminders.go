package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/reminders"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/server/resp"
)

const detailReminderNotFound = "Reminder not found"

// ReminderStore is the slice of the reminders repo the handler needs.
type ReminderStore interface {
	Create(ctx context.Context, userID uuid.UUID, p reminders.CreateParams) (*reminders.Reminder, error)
	ListByUser(ctx context.Context, userID uuid.UUID, skip, limit int) ([]reminders.Reminder, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*reminders.Reminder, error)
	Update(ctx context.Context, userID, id uuid.UUID, u reminders.UpdateFields) (*reminders.Reminder, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*reminders.Reminder, error)
}

type RemindersHandler struct {
	logger    *zap.Logger
	reminders ReminderStore
}

func NewRemindersHandler(logger *zap.Logger, reminderStore ReminderStore) *RemindersHandler {
	return &RemindersHandler{logger: logger, reminders: reminderStore}
}

type createReminderReq struct {
	Name        string    `json:"name" binding:"required,max=100"`
	Active      *bool     `json:"active"`
	NextDate    time.Time `json:"next_date" binding:"required"`
	Category    string    `json:"category" binding:"required,max=50"`
	Amount      int64     `json:"amount" binding:"required"`
	Frequency   int       `json:"frequency" binding:"required,min=1"`
	Description *string   `json:"description" binding:"omitempty,max=255"`
}

func (h *RemindersHandler) Create(c *gin.Context) {
	var req createReminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user := mw.CurrentUser(c)
	m, err := h.reminders.Create(c.Request.Context(), user.ID, reminders.CreateParams{
		Name:        req.Name,
		Active:      active,
		NextDate:    req.NextDate,
		Category:    req.Category,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("reminder create failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *RemindersHandler) List(c *gin.Context) {
	user := mw.CurrentUser(c)
	skip, limit := pagination(c, 10)

	items, err := h.reminders.ListByUser(c.Request.Context(), user.ID, skip, limit)
	if err != nil {
		h.logger.Error("reminder list failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *RemindersHandler) Get(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailReminderNotFound)
		return
	}

	m, err := h.reminders.FindByID(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, detailReminderNotFound)
			return
		}
		h.logger.Error("reminder get failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, m)
}

type updateReminderReq struct {
	Name        *string    `json:"name" binding:"omitempty,max=100"`
	Active      *bool      `json:"active"`
	NextDate    *time.Time `json:"next_date"`
	Category    *string    `json:"category" binding:"omitempty,max=50"`
	Amount      *int64     `json:"amount"`
	Frequency   *int       `json:"frequency" binding:"omitempty,min=1"`
	Description *string    `json:"description" binding:"omitempty,max=255"`
}

func (h *RemindersHandler) Update(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailReminderNotFound)
		return
	}

	var req updateReminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	m, err := h.reminders.Update(c.Request.Context(), user.ID, id, reminders.UpdateFields{
		Name:        req.Name,
		Active:      req.Active,
		NextDate:    req.NextDate,
		Category:    req.Category,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, detailReminderNotFound)
			return
		}
		h.logger.Error("reminder update failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete removes the reminder and echoes the deleted row back.
func (h *RemindersHandler) Delete(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailReminderNotFound)
		return
	}

	m, err := h.reminders.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, detailReminderNotFound)
			return
		}
		h.logger.Error("reminder delete failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, m)
}
