package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/ledger"
	"github.com/finflow/backend/internal/notifications"
	"github.com/finflow/backend/internal/reminders"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/server/resp"
)

// SeedStores bundles the write access the generator needs.
type SeedStores struct {
	Transactions interface {
		Create(ctx context.Context, userID uuid.UUID, p ledger.CreateParams) (*ledger.Transaction, error)
		DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	}
	Reminders interface {
		Create(ctx context.Context, userID uuid.UUID, p reminders.CreateParams) (*reminders.Reminder, error)
		DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	}
	Notifications interface {
		Create(ctx context.Context, userID, reminderID uuid.UUID, name string, date time.Time) (*notifications.Notification, error)
		DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	}
}

// SeedHandler fills the caller's account with randomized fixture data
// for demos and frontend development.
type SeedHandler struct {
	logger *zap.Logger
	stores SeedStores
}

func NewSeedHandler(logger *zap.Logger, stores SeedStores) *SeedHandler {
	return &SeedHandler{logger: logger, stores: stores}
}

var (
	incomeCategories  = []string{"Salary", "Freelance", "Gift", "Investment", "Bonus"}
	outcomeCategories = []string{"Food", "Housing", "Transportation", "Entertainment", "Healthcare", "Shopping", "Utilities", "Education", "Travel", "Other"}
	frequencies       = []int{7, 14, 30, 90}
)

type seedReq struct {
	NumTransactions          int  `json:"num_transactions"`
	NumReminders             int  `json:"num_reminders"`
	NumNotificationsPerRemin int  `json:"num_notifications_per_reminder"`
	ClearExisting            bool `json:"clear_existing"`
}

func (r *seedReq) applyDefaults() {
	if r.NumTransactions <= 0 {
		r.NumTransactions = 20
	}
	if r.NumReminders <= 0 {
		r.NumReminders = 3
	}
	if r.NumNotificationsPerRemin <= 0 {
		r.NumNotificationsPerRemin = 2
	}
}

func (h *SeedHandler) Generate(c *gin.Context) {
	var req seedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	req.applyDefaults()

	user := mw.CurrentUser(c)
	ctx := c.Request.Context()

	if req.ClearExisting {
		h.logger.Info("clearing existing data before seeding", zap.String("user_id", user.ID.String()))
		for _, clear := range []func(context.Context, uuid.UUID) error{
			h.stores.Notifications.DeleteAllByUser,
			h.stores.Reminders.DeleteAllByUser,
			h.stores.Transactions.DeleteAllByUser,
		} {
			if err := clear(ctx, user.ID); err != nil {
				h.logger.Error("seed clear failed", zap.Error(err))
				resp.Internal(c)
				return
			}
		}
	}

	now := time.Now()
	totalTx := 0
	for i := 0; i < req.NumTransactions; i++ {
		date := now.AddDate(0, 0, -rand.Intn(365))
		p := ledger.CreateParams{Date: date}
		if rand.Float64() < 0.3 {
			cat := incomeCategories[rand.Intn(len(incomeCategories))]
			p.Name = cat + " payment"
			p.Type = ledger.TypeIncome
			p.Category = cat
			p.Amount = int64(1000 + rand.Intn(4000))
		} else {
			cat := outcomeCategories[rand.Intn(len(outcomeCategories))]
			p.Name = cat + " expense"
			p.Type = ledger.TypeOutcome
			p.Category = cat
			p.Amount = -int64(50 + rand.Intn(950))
		}
		if _, err := h.stores.Transactions.Create(ctx, user.ID, p); err != nil {
			h.logger.Error("seed transaction failed", zap.Error(err))
			resp.Internal(c)
			return
		}
		totalTx++
	}

	totalReminders, totalNotifs := 0, 0
	for i := 0; i < req.NumReminders; i++ {
		cat := outcomeCategories[rand.Intn(len(outcomeCategories))]
		desc := "Reminder for " + cat + " payment"
		next := now.AddDate(0, 0, 1+rand.Intn(30))
		rem, err := h.stores.Reminders.Create(ctx, user.ID, reminders.CreateParams{
			Name:        cat + " payment",
			Active:      true,
			NextDate:    next,
			Category:    cat,
			Amount:      -int64(50 + rand.Intn(450)),
			Frequency:   frequencies[rand.Intn(len(frequencies))],
			Description: &desc,
		})
		if err != nil {
			h.logger.Error("seed reminder failed", zap.Error(err))
			resp.Internal(c)
			return
		}
		totalReminders++

		for j := 0; j < req.NumNotificationsPerRemin; j++ {
			date := rem.NextDate.AddDate(0, 0, -rand.Intn(8))
			if _, err := h.stores.Notifications.Create(ctx, user.ID, rem.ID, rem.Name, date); err != nil {
				h.logger.Error("seed notification failed", zap.Error(err))
				resp.Internal(c)
				return
			}
			totalNotifs++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions":  totalTx,
		"reminders":     totalReminders,
		"notifications": totalNotifs,
	})
}
