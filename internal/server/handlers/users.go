package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/security"
	"github.com/finflow/backend/internal/server/mw"
	"github.com/finflow/backend/internal/server/resp"
	"github.com/finflow/backend/internal/users"
)

// UserStore is the slice of the users repo the users handler needs.
type UserStore interface {
	Create(ctx context.Context, name, email, phone, hashedPassword string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByPhone(ctx context.Context, phone string) (*users.User, error)
	Update(ctx context.Context, id uuid.UUID, u users.UpdateFields) (*users.User, error)
}

type UsersHandler struct {
	logger *zap.Logger
	users  UserStore
}

func NewUsersHandler(logger *zap.Logger, usersRepo UserStore) *UsersHandler {
	return &UsersHandler{logger: logger, users: usersRepo}
}

type createUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if !users.ValidPhone(req.Phone) {
		resp.Error(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	ctx := c.Request.Context()
	if taken, err := h.emailTaken(ctx, req.Email, uuid.Nil); err != nil {
		resp.Internal(c)
		return
	} else if taken {
		h.logger.Warn("create with existing email", zap.String("email", req.Email))
		resp.Error(c, http.StatusBadRequest, "Email already registered")
		return
	}
	if taken, err := h.phoneTaken(ctx, req.Phone, uuid.Nil); err != nil {
		resp.Internal(c)
		return
	} else if taken {
		h.logger.Warn("create with existing phone", zap.String("phone", req.Phone))
		resp.Error(c, http.StatusBadRequest, "Phone number already registered")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	u, err := h.users.Create(ctx, req.Name, req.Email, req.Phone, hash)
	if err != nil {
		// The pre-checks race against concurrent inserts; the unique
		// constraints are the source of truth.
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			resp.Error(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, users.ErrPhoneTaken):
			resp.Error(c, http.StatusBadRequest, "Phone number already registered")
		default:
			h.logger.Error("user create failed", zap.Error(err))
			resp.Internal(c)
		}
		return
	}

	h.logger.Info("user created", zap.String("user_id", u.ID.String()))
	c.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, mw.CurrentUser(c))
}

type updateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

func (h *UsersHandler) UpdateMe(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Phone != nil && !users.ValidPhone(*req.Phone) {
		resp.Error(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	current := mw.CurrentUser(c)
	ctx := c.Request.Context()

	if req.Email != nil && *req.Email != current.Email {
		if taken, err := h.emailTaken(ctx, *req.Email, current.ID); err != nil {
			resp.Internal(c)
			return
		} else if taken {
			h.logger.Warn("update to existing email", zap.String("user_id", current.ID.String()))
			resp.Error(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	if req.Phone != nil && *req.Phone != current.Phone {
		if taken, err := h.phoneTaken(ctx, *req.Phone, current.ID); err != nil {
			resp.Internal(c)
			return
		} else if taken {
			h.logger.Warn("update to existing phone", zap.String("user_id", current.ID.String()))
			resp.Error(c, http.StatusBadRequest, "Phone number already registered")
			return
		}
	}

	fields := users.UpdateFields{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			h.logger.Error("password hash failed", zap.Error(err))
			resp.Internal(c)
			return
		}
		fields.HashedPassword = &hash
	}

	u, err := h.users.Update(ctx, current.ID, fields)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			resp.Error(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, users.ErrPhoneTaken):
			resp.Error(c, http.StatusBadRequest, "Phone number already registered")
		default:
			h.logger.Error("user update failed", zap.Error(err))
			resp.Internal(c)
		}
		return
	}

	h.logger.Info("user updated profile", zap.String("user_id", u.ID.String()))
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) emailTaken(ctx context.Context, email string, selfID uuid.UUID) (bool, error) {
	u, err := h.users.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.ID != selfID, nil
}

func (h *UsersHandler) phoneTaken(ctx context.Context, phone string, selfID uuid.UUID) (bool, error) {
	u, err := h.users.FindByPhone(ctx, phone)
	if errors.Is(err, users.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.ID != selfID, nil
}
