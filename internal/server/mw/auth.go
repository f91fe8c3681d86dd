package mw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finflow/backend/internal/security"
	"github.com/finflow/backend/internal/server/resp"
	"github.com/finflow/backend/internal/users"
)

const ctxUserKey = "current_user"

// UserLoader resolves a token subject to a stored user.
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// RequireUser validates the bearer token, loads the subject and rejects
// inactive accounts. The loaded user lands in the gin context.
func RequireUser(jwtm *security.JWTManager, loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			resp.AbortError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		id, err := jwtm.ParseAccess(strings.TrimSpace(token))
		if err != nil || id == uuid.Nil {
			resp.AbortError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		u, err := loader.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				resp.AbortError(c, http.StatusNotFound, "User not found")
				return
			}
			resp.AbortError(c, http.StatusInternalServerError, resp.DetailInternal)
			return
		}
		if !u.IsActive {
			resp.AbortError(c, http.StatusBadRequest, "Inactive user")
			return
		}

		SetUser(c, u)
		c.Next()
	}
}

// SetUser stores the authenticated user in the gin context.
func SetUser(c *gin.Context, u *users.User) {
	c.Set(ctxUserKey, u)
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}
