package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/api/handler"
	"github.com/rosterhq/roster/internal/audit"
	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

func setupAuditRouter(t *testing.T) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewIssuer([]byte("test-secret"), "http://test", time.Hour)
	h := handler.NewAuditHandler(audit.New(), tokens, zap.NewNop())

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.Register(v1)
	return r, tokens
}

func TestAuditOverview_200(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	entries := int(resp["entries"].(float64))
	if entries != 1 { // genesis
		t.Errorf("expected 1 entry (genesis), got %d", entries)
	}
	if resp["root"] == "" {
		t.Error("expected a root hash")
	}
}

func TestAuditOverview_401_noToken(t *testing.T) {
	router, _ := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuditOverview_403_nonStaff(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleAuthenticated))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuditVerify_200(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/verify", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["valid"] != true {
		t.Errorf("expected valid=true, got %v", resp["valid"])
	}
}

func TestAuditGetEntry_200_genesis(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/entries/0", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var entry audit.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if entry.Action != "genesis" {
		t.Errorf("entry 0 action = %q, want genesis", entry.Action)
	}
}

func TestAuditGetEntry_404(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/entries/999", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAuditGetEntry_400_invalidIdx(t *testing.T) {
	router, tokens := setupAuditRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/entries/abc", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, tokens, users.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
