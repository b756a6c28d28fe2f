package webhooks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

// Handler handles HTTP requests for webhook subscriptions.
type Handler struct {
	svc    *Service
	tokens *auth.Issuer
	logger *zap.Logger
}

// NewHandler creates a new webhook Handler.
func NewHandler(svc *Service, tokens *auth.Issuer, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// Register mounts the webhook routes on rg. Subscriptions are a staff
// facility: every route requires a staff session.
func (h *Handler) Register(rg *gin.RouterGroup) {
	wh := rg.Group("/webhooks", auth.Require(h.tokens), auth.RequireStaff())
	{
		wh.POST("", h.CreateSubscription)
		wh.GET("", h.ListSubscriptions)
		wh.DELETE("/:id", h.DeleteSubscription)
	}
}

// CreateSubscription handles POST /webhooks.
func (h *Handler) CreateSubscription(c *gin.Context) {
	ownerID, ok := h.sessionUserID(c)
	if !ok {
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{
			Error:   "url and events are required",
			Details: err.Error(),
		})
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), ownerID, &req)
	if err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			c.JSON(http.StatusUnprocessableEntity, users.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("create webhook subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "failed to create subscription"})
		return
	}

	// Return the secret once so the subscriber can store it.
	c.JSON(http.StatusCreated, gin.H{
		"subscription": sub,
		"secret":       sub.Secret,
		"note":         "Store the secret securely. It will not be shown again.",
	})
}

// ListSubscriptions handles GET /webhooks.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	ownerID, ok := h.sessionUserID(c)
	if !ok {
		return
	}

	subs, err := h.svc.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error("list webhook subscriptions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "failed to list subscriptions"})
		return
	}
	if subs == nil {
		subs = []*Subscription{}
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "count": len(subs)})
}

// DeleteSubscription handles DELETE /webhooks/:id.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	ownerID, ok := h.sessionUserID(c)
	if !ok {
		return
	}

	subID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid subscription id"})
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), ownerID, subID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, users.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, users.ErrorResponse{Error: err.Error()})
		default:
			h.logger.Error("delete webhook subscription", zap.Error(err))
			c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "failed to delete subscription"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// sessionUserID extracts the subject UUID from the verified session
// claims, writing the error response itself on failure.
func (h *Handler) sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, users.ErrorResponse{Error: "session required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "invalid user ID in token"})
		return uuid.Nil, false
	}
	return id, true
}
