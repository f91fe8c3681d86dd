package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/notifications"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/server/resp"
)

const detailNotificationNotFound = "Notification not found"

// NotificationStore is the slice of the notifications repo the handler
// needs; Accept/Refuse/Extend run the action state machine atomically.
type NotificationStore interface {
	Create(ctx context.Context, userID, reminderID uuid.UUID, name string, date time.Time) (*notifications.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]notifications.Notification, error)
	Accept(ctx context.Context, userID, id uuid.UUID) (*notifications.Notification, error)
	Refuse(ctx context.Context, userID, id uuid.UUID) (*notifications.Notification, error)
	Extend(ctx context.Context, userID, id uuid.UUID) (*notifications.Notification, error)
}

type NotificationsHandler struct {
	logger *zap.Logger
	notifs NotificationStore
}

func NewNotificationsHandler(logger *zap.Logger, notifStore NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{logger: logger, notifs: notifStore}
}

type createNotificationReq struct {
	Name       string     `json:"name" binding:"required"`
	ReminderID uuid.UUID  `json:"reminder_id" binding:"required"`
	Date       *time.Time `json:"date"`
}

func (h *NotificationsHandler) Create(c *gin.Context) {
	var req createNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	user := mw.CurrentUser(c)
	n, err := h.notifs.Create(c.Request.Context(), user.ID, req.ReminderID, req.Name, date)
	if err != nil {
		h.logger.Error("notification create failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *NotificationsHandler) List(c *gin.Context) {
	user := mw.CurrentUser(c)

	items, err := h.notifs.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("notification list failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	if items == nil {
		items = []notifications.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

type notificationActionReq struct {
	Status string `json:"status" binding:"required"`
}

// Act dispatches the requested status change:
//   - accepted: book the payment, advance the reminder, drop the notification
//   - refused: advance the reminder, drop the notification
//   - extended: push the notification one day forward
func (h *NotificationsHandler) Act(c *gin.Context) {
	user := mw.CurrentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusNotFound, detailNotificationNotFound)
		return
	}

	var req notificationActionReq
	if err := c.ShouldBindJSON(&req); err != nil || !notifications.ValidStatus(req.Status) {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx := c.Request.Context()
	var n *notifications.Notification
	switch req.Status {
	case notifications.StatusAccepted:
		n, err = h.notifs.Accept(ctx, user.ID, id)
	case notifications.StatusRefused:
		n, err = h.notifs.Refuse(ctx, user.ID, id)
	case notifications.StatusExtended:
		n, err = h.notifs.Extend(ctx, user.ID, id)
	default:
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotFound):
			resp.Error(c, http.StatusNotFound, detailNotificationNotFound)
		case errors.Is(err, notifications.ErrNoReminder):
			resp.Error(c, http.StatusBadRequest, "No reminder associated with this notification")
		default:
			h.logger.Error("notification action failed",
				zap.String("status", req.Status),
				zap.Error(err),
			)
			resp.Internal(c)
		}
		return
	}

	h.logger.Info("notification action applied",
		zap.String("user_id", user.ID.String()),
		zap.String("notification_id", id.String()),
		zap.String("status", req.Status),
	)
	c.JSON(http.StatusOK, n)
}
