// Package ledger stores income and outcome transactions per user.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TypeIncome  = "income"
	TypeOutcome = "outcome"
)

type Transaction struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Amount    int64      `json:"amount"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// NormalizeAmount forces the sign convention: outcome/expense amounts are
// negative, income amounts positive.
func NormalizeAmount(txType string, amount int64) int64 {
	switch strings.ToLower(txType) {
	case TypeOutcome, "expense":
		if amount > 0 {
			return -amount
		}
	case TypeIncome:
		if amount < 0 {
			return -amount
		}
	}
	return amount
}
