package users

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// User mirrors DB columns from the `users` table. The password hash is
// never serialized.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidPhone reports whether p is an acceptable phone number:
// 10-15 digits with an optional leading plus.
func ValidPhone(p string) bool {
	return phoneRe.MatchString(p)
}
