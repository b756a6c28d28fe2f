package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/audit"
	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

// AuditHandler exposes read-only HTTP endpoints for the account audit
// ledger.
type AuditHandler struct {
	ledger audit.Ledger
	tokens *auth.Issuer
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(ledger audit.Ledger, tokens *auth.Issuer, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{ledger: ledger, tokens: tokens, logger: logger}
}

// Register mounts the audit routes on rg. The ledger names accounts and
// actors, so reading it requires a staff session.
func (h *AuditHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/audit", auth.Require(h.tokens), auth.RequireStaff())
	{
		a.GET("", h.Overview)
		a.GET("/verify", h.Verify)
		a.GET("/entries/:idx", h.GetEntry)
	}
}

// Overview handles GET /audit — returns the chain length and current root hash.
func (h *AuditHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.ledger.Len(ctx)
	if err != nil {
		h.logger.Error("audit Len", zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "failed to query audit ledger"})
		return
	}

	root, err := h.ledger.Root(ctx)
	if err != nil {
		h.logger.Error("audit Root", zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: "failed to query audit root"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": count,
		"root":    root,
	})
}

// Verify handles GET /audit/verify — walks the full chain and reports integrity.
func (h *AuditHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.ledger.Verify(ctx); err != nil {
		h.logger.Warn("audit integrity check failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// GetEntry handles GET /audit/entries/:idx — returns a single ledger entry.
func (h *AuditHandler) GetEntry(c *gin.Context) {
	ctx := c.Request.Context()

	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 {
		c.JSON(http.StatusBadRequest, users.ErrorResponse{Error: "idx must be a non-negative integer"})
		return
	}

	entry, err := h.ledger.Get(ctx, idx)
	if err != nil {
		c.JSON(http.StatusNotFound, users.ErrorResponse{Error: "entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
