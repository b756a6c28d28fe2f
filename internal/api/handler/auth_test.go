package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/api/handler"
	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

// ── Stub auth service ─────────────────────────────────────────────────────

type stubAuthSvc struct {
	loginUser *users.User
	loginErr  error
	getUser   *users.User
	getErr    error
}

func (s *stubAuthSvc) Authenticate(_ context.Context, email, _ string) (*users.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	if s.loginUser != nil {
		return s.loginUser, nil
	}
	return &users.User{
		ID:       uuid.New(),
		Email:    email,
		Nickname: "alice_c",
		Role:     users.RoleAuthenticated,
	}, nil
}

func (s *stubAuthSvc) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getUser != nil {
		return s.getUser, nil
	}
	return &users.User{
		ID:       id,
		Email:    "alice@acme.com",
		Nickname: "alice_c",
		Role:     users.RoleAuthenticated,
	}, nil
}

// ── Test setup ────────────────────────────────────────────────────────────

func setupAuthRouter(t *testing.T, svc *stubAuthSvc) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewIssuer([]byte("test-secret"), "http://test", time.Hour)
	h := handler.NewAuthHandler(svc, tokens, zap.NewNop())

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.Register(v1)
	return r, tokens
}

// ── Tests ─────────────────────────────────────────────────────────────────

func TestLogin_200(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubAuthSvc{})

	body := `{"email":"alice@acme.com","password":"Sup3rsecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] == nil || resp["token"] == "" {
		t.Error("expected token in response")
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object in response: %v", resp)
	}
	if user["email"] != "alice@acme.com" {
		t.Errorf("user email = %v", user["email"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash leaked into the login response")
	}
}

func TestLogin_200_tokenVerifies(t *testing.T) {
	router, tokens := setupAuthRouter(t, &stubAuthSvc{})

	body := `{"email":"alice@acme.com","password":"Sup3rsecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	tok, _ := resp["token"].(string)

	claims, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "alice@acme.com" {
		t.Errorf("claims email = %q", claims.Email)
	}
}

func TestLogin_401_badCredentials(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubAuthSvc{loginErr: users.ErrInvalidLogin})

	body := `{"email":"alice@acme.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogin_400_missingPassword(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubAuthSvc{})

	body := `{"email":"alice@acme.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestMe_200(t *testing.T) {
	router, tokens := setupAuthRouter(t, &stubAuthSvc{})

	tok, err := tokens.Issue(&users.User{
		ID:       uuid.New(),
		Email:    "alice@acme.com",
		Nickname: "alice_c",
		Role:     users.RoleAuthenticated,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["email"] != "alice@acme.com" {
		t.Errorf("email = %v", resp["email"])
	}
}

func TestMe_401_noToken(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubAuthSvc{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMe_401_garbageToken(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubAuthSvc{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMe_404_vanishedAccount(t *testing.T) {
	router, tokens := setupAuthRouter(t, &stubAuthSvc{getErr: users.ErrNotFound})

	tok, err := tokens.Issue(&users.User{
		ID:       uuid.New(),
		Email:    "ghost@acme.com",
		Nickname: "ghost",
		Role:     users.RoleAuthenticated,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
