package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

// authSvc is the subset of users.UserService consumed by AuthHandler.
type authSvc interface {
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// AuthHandler handles session routes.
type AuthHandler struct {
	users  authSvc
	tokens *auth.Issuer
	logger *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authSvc, tokens *auth.Issuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: svc, tokens: tokens, logger: logger}
}

// Register mounts auth routes on the provided router group.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	ag := rg.Group("/auth")
	{
		ag.POST("/login", h.Login)
		ag.GET("/me", auth.Require(h.tokens), h.Me)
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login. Bad credentials always produce the
// same 401 regardless of which part was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{
			Error:   "email and password are required",
			Details: err.Error(),
		})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RecordLogin(false)
		writeDomainError(c, h.logger, "login", err)
		return
	}

	tok, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Error("issue session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "token issuance failed"})
		return
	}

	RecordLogin(true)
	c.JSON(http.StatusOK, gin.H{"user": u.Public(), "token": tok})
}

// Me handles GET /auth/me. Returns the outward record of the session
// holder.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, users.ErrorResponse{Error: "session required"})
		return
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid user ID in token"})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), uid)
	if err != nil {
		writeDomainError(c, h.logger, "get profile", err)
		return
	}

	c.JSON(http.StatusOK, u.Public())
}
