package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/security"
	"github.com/finflow/backend/internal/server/resp"
	"github.com/finflow/backend/internal/store"
	"github.com/finflow/backend/internal/users"
)

// UserFinder is the slice of the users repo the auth handler needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// RefreshTokens tracks issued refresh JTIs; store.RefreshStore implements it.
type RefreshTokens interface {
	Put(ctx context.Context, userID, jti string) error
	Consume(ctx context.Context, userID, jti string) error
}

type AuthHandler struct {
	logger  *zap.Logger
	users   UserFinder
	refresh RefreshTokens
	jwtm    *security.JWTManager
}

func NewAuthHandler(logger *zap.Logger, usersRepo UserFinder, refreshStore RefreshTokens, jwtm *security.JWTManager) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		users:   usersRepo,
		refresh: refreshStore,
		jwtm:    jwtm,
	}
}

// loginReq accepts the password-grant form shape (username carries the
// email) as well as the same fields as JSON.
type loginReq struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	u, err := h.users.FindByEmail(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		h.logger.Error("login lookup failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	if u == nil || !security.ComparePassword(u.HashedPassword, req.Password) {
		h.logger.Warn("login attempt failed", zap.String("username", req.Username))
		resp.Error(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	tokens, refreshClaims, err := h.jwtm.Issue(u.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	if err := h.refresh.Put(c.Request.Context(), refreshClaims.UserID, refreshClaims.JTI); err != nil {
		h.logger.Error("refresh store failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	h.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	c.JSON(http.StatusOK, tokens)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token: the presented JTI is consumed and a new
// access/refresh pair is issued. A replayed token gets 401.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	claims, err := h.jwtm.ParseRefresh(req.RefreshToken)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if err := h.refresh.Consume(c.Request.Context(), claims.UserID, claims.JTI); err != nil {
		if errors.Is(err, store.ErrRefreshInvalid) {
			resp.Error(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		h.logger.Error("refresh consume failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	tokens, newClaims, err := h.jwtm.Issue(userID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		resp.Internal(c)
		return
	}
	if err := h.refresh.Put(c.Request.Context(), newClaims.UserID, newClaims.JTI); err != nil {
		h.logger.Error("refresh store failed", zap.Error(err))
		resp.Internal(c)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout consumes the refresh JTI so the token cannot be used again.
// Logging out twice is not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	claims, err := h.jwtm.ParseRefresh(req.RefreshToken)
	if err == nil {
		if err := h.refresh.Consume(c.Request.Context(), claims.UserID, claims.JTI); err != nil && !errors.Is(err, store.ErrRefreshInvalid) {
			h.logger.Error("logout consume failed", zap.Error(err))
			resp.Internal(c)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
