// Package notifications stores reminder notifications and runs the
// accept/refuse/extend actions on them.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Action values accepted by the update endpoint.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
	StatusExtended = "extended"
)

type Notification struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	ReminderID uuid.UUID  `json:"reminder_id"`
	Name       string     `json:"name"`
	Date       time.Time  `json:"date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused, StatusExtended:
		return true
	}
	return false
}
