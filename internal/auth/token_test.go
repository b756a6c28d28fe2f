package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/users"
)

func testUser() *users.User {
	return &users.User{
		ID:       uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Email:    "alice@acme.com",
		Nickname: "alice_c",
		Role:     users.RoleModerator,
	}
}

func TestIssueVerify_roundTrip(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", time.Hour)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("user_id = %q", claims.UserID)
	}
	if claims.Email != "alice@acme.com" || claims.Nickname != "alice_c" {
		t.Errorf("identity claims lost: %q / %q", claims.Email, claims.Nickname)
	}
	if claims.Role != users.RoleModerator {
		t.Errorf("role = %q, want MODERATOR", claims.Role)
	}
}

func TestVerify_wrongSecret(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", time.Hour)
	other := auth.NewIssuer([]byte("other-secret"), "http://localhost:8080", time.Hour)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(tok); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestVerify_expired(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", -time.Minute)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(tok); err == nil {
		t.Error("expired token verified")
	}
}

func TestVerify_issuerMismatch(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", time.Hour)
	other := auth.NewIssuer([]byte("test-secret"), "https://roster.example.com", time.Hour)

	tok, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(tok); err == nil {
		t.Error("token with a foreign issuer verified")
	}
}

func TestVerify_garbage(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(raw); err == nil {
			t.Errorf("Verify(%q) accepted garbage", raw)
		}
	}
}

func TestVerify_unrecognizedRole(t *testing.T) {
	issuer := auth.NewIssuer([]byte("test-secret"), "http://localhost:8080", time.Hour)

	u := testUser()
	u.Role = users.UserRole("SUPERUSER")
	tok, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = issuer.Verify(tok)
	if err == nil {
		t.Fatal("token carrying an unrecognized role verified")
	}
	if !strings.Contains(err.Error(), "unrecognized role") {
		t.Errorf("unexpected error: %v", err)
	}
}
