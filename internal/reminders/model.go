// Package reminders stores recurring payment reminders per user.
package reminders

import (
	"time"

	"github.com/google/uuid"
)

type Reminder struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Active      bool       `json:"active"`
	NextDate    time.Time  `json:"next_date"`
	Category    string     `json:"category"`
	Amount      int64      `json:"amount"`
	Frequency   int        `json:"frequency"` // days between occurrences
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
