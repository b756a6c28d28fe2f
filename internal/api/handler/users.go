package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

// userSvc is the subset of users.UserService consumed by UserHandler.
type userSvc interface {
	Create(ctx context.Context, d *users.CreateDraft) (*users.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	GetByNickname(ctx context.Context, nick string) (*users.User, error)
	List(ctx context.Context, page, size int) (*users.Page, error)
	Update(ctx context.Context, id uuid.UUID, d *users.UpdateDraft) (*users.User, error)
	SetProfessional(ctx context.Context, id uuid.UUID, professional bool) (*users.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles HTTP requests for roster accounts.
type UserHandler struct {
	users  userSvc
	tokens *auth.Issuer
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc userSvc, tokens *auth.Issuer, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: svc, tokens: tokens, logger: logger}
}

// Register mounts user routes on rg. Signup is public; reading and
// editing records requires a staff session, deletion and the
// professional flag an admin one.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/users", h.Create)

	staff := rg.Group("/users", auth.Require(h.tokens), auth.RequireStaff())
	{
		staff.GET("", h.List)
		staff.GET("/:id", h.Get)
		staff.PATCH("/:id", h.Update)
	}

	admin := rg.Group("/users", auth.Require(h.tokens), auth.RequireAdmin())
	{
		admin.DELETE("/:id", h.Delete)
		admin.PUT("/:id/professional-status", h.SetProfessionalStatus)
	}
}

// Create handles POST /users. The draft is validated in full and every
// field failure is reported in one response.
func (h *UserHandler) Create(c *gin.Context) {
	var draft users.CreateDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	u, err := h.users.Create(c.Request.Context(), &draft)
	if err != nil {
		writeDomainError(c, h.logger, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, u.Public())
}

// List handles GET /users with 1-based page and size query parameters.
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	out, err := h.users.List(c.Request.Context(), page, size)
	if err != nil {
		writeDomainError(c, h.logger, "list users", err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id. The path segment accepts either the
// record UUID or a nickname.
func (h *UserHandler) Get(c *gin.Context) {
	key := c.Param("id")
	ctx := c.Request.Context()

	var (
		u   *users.User
		err error
	)
	if id, perr := uuid.Parse(key); perr == nil {
		u, err = h.users.GetByID(ctx, id)
	} else {
		u, err = h.users.GetByNickname(ctx, key)
	}
	if err != nil {
		writeDomainError(c, h.logger, "get user", err)
		return
	}

	c.JSON(http.StatusOK, u.Public())
}

// Update handles PATCH /users/:id with a partial draft. An empty draft
// is rejected before any field rule runs; a role-only change is a
// legitimate update.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid user id"})
		return
	}

	var draft users.UpdateDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	u, err := h.users.Update(c.Request.Context(), id, &draft)
	if err != nil {
		writeDomainError(c, h.logger, "update user", err)
		return
	}

	c.JSON(http.StatusOK, u.Public())
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid user id"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		writeDomainError(c, h.logger, "delete user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// professionalStatusRequest is the body for PUT /users/:id/professional-status.
type professionalStatusRequest struct {
	IsProfessional *bool `json:"is_professional" binding:"required"`
}

// SetProfessionalStatus handles PUT /users/:id/professional-status.
func (h *UserHandler) SetProfessionalStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid user id"})
		return
	}

	var req professionalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{
			Error:   "is_professional is required",
			Details: err.Error(),
		})
		return
	}

	u, err := h.users.SetProfessional(c.Request.Context(), id, *req.IsProfessional)
	if err != nil {
		writeDomainError(c, h.logger, "set professional status", err)
		return
	}

	c.JSON(http.StatusOK, u.Public())
}
