package users_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rosterhq/roster/internal/users"
)

// stubGen is a deterministic nickname source for tests. Setting fail makes
// Generate return that error; calls counts invocations.
type stubGen struct {
	next  string
	fail  error
	calls int
}

func (g *stubGen) Generate() (string, error) {
	g.calls++
	if g.fail != nil {
		return "", g.fail
	}
	if g.next == "" {
		return "brisk_lynx_007", nil
	}
	return g.next, nil
}

func str(s string) *string { return &s }

// ── CreateDraft ───────────────────────────────────────────────────────────

func TestCreateDraftValidate_success(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{
		Email:            "  Alice@ACME.com ",
		Nickname:         str("alice_c"),
		GithubProfileURL: str("https://github.com/alice"),
		Role:             "AUTHENTICATED",
		Password:         "Sup3rsecret",
	}

	p, err := d.Validate(gen)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Email != "alice@acme.com" {
		t.Errorf("email not normalized: %q", p.Email)
	}
	if p.Nickname != "alice_c" {
		t.Errorf("unexpected nickname: %q", p.Nickname)
	}
	if p.Role != users.RoleAuthenticated {
		t.Errorf("unexpected role: %q", p.Role)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a present nickname", gen.calls)
	}
}

func TestCreateDraftValidate_generatesNicknameWhenAbsent(t *testing.T) {
	for name, d := range map[string]*users.CreateDraft{
		"nil":   {Email: "a@b.co", Role: "ADMIN", Password: "Sup3rsecret"},
		"empty": {Email: "a@b.co", Nickname: str(""), Role: "ADMIN", Password: "Sup3rsecret"},
	} {
		gen := &stubGen{next: "calm_heron_312"}
		p, err := d.Validate(gen)
		if err != nil {
			t.Fatalf("%s: Validate: %v", name, err)
		}
		if p.Nickname != "calm_heron_312" {
			t.Errorf("%s: unexpected nickname %q", name, p.Nickname)
		}
		if gen.calls != 1 {
			t.Errorf("%s: generator called %d times, want exactly 1", name, gen.calls)
		}
	}
}

func TestCreateDraftValidate_generatedNicknameTrustedAsIs(t *testing.T) {
	// A two-character nickname would fail the format rules if a caller sent
	// it, but generator output skips the format pass.
	gen := &stubGen{next: "xy"}
	d := &users.CreateDraft{Email: "a@b.co", Role: "ADMIN", Password: "Sup3rsecret"}

	p, err := d.Validate(gen)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Nickname != "xy" {
		t.Errorf("unexpected nickname: %q", p.Nickname)
	}
}

func TestCreateDraftValidate_suppliedNicknameIsChecked(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{
		Email:    "a@b.co",
		Nickname: str("xy"),
		Role:     "ADMIN",
		Password: "Sup3rsecret",
	}

	_, err := d.Validate(gen)
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "nickname" || verrs[0].Kind != users.KindFormat {
		t.Errorf("unexpected violations: %+v", verrs)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a present nickname", gen.calls)
	}
}

func TestCreateDraftValidate_generatorFailure(t *testing.T) {
	gen := &stubGen{fail: errors.New("wordlist exhausted")}
	d := &users.CreateDraft{Email: "a@b.co", Role: "ADMIN", Password: "Sup3rsecret"}

	_, err := d.Validate(gen)
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "nickname" || verrs[0].Kind != users.KindCollaborator {
		t.Errorf("unexpected violations: %+v", verrs)
	}
	if !strings.Contains(verrs[0].Message, "wordlist exhausted") {
		t.Errorf("collaborator cause lost: %q", verrs[0].Message)
	}
}

func TestCreateDraftValidate_requiredFields(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{}

	_, err := d.Validate(gen)
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}

	required := map[string]bool{}
	for _, fe := range verrs {
		if fe.Kind == users.KindRequired {
			required[fe.Field] = true
		}
	}
	for _, f := range []string{"email", "role", "password"} {
		if !required[f] {
			t.Errorf("missing required violation for %s in %+v", f, verrs)
		}
	}
	// An absent nickname is generated, never reported missing.
	for _, fe := range verrs {
		if fe.Field == "nickname" {
			t.Errorf("nickname reported instead of generated: %+v", fe)
		}
	}
}

func TestCreateDraftValidate_aggregatesAllFailures(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{
		Email:              "not-an-email",
		Nickname:           str("x"),
		LinkedinProfileURL: str("https://www.linkedin.com/alice"),
		GithubProfileURL:   str("https://github.com/alice/repo"),
		Role:               "SUPERUSER",
		Password:           "short",
	}

	_, err := d.Validate(gen)
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}
	if len(verrs) != 6 {
		t.Fatalf("expected 6 violations, got %d: %v", len(verrs), verrs)
	}

	wantOrder := []string{"email", "nickname", "linkedin_profile_url", "github_profile_url", "role", "password"}
	for i, f := range wantOrder {
		if verrs[i].Field != f {
			t.Errorf("violation %d: field %s, want %s", i, verrs[i].Field, f)
		}
	}
	if verrs[4].Kind != users.KindRole {
		t.Errorf("role violation kind = %s, want %s", verrs[4].Kind, users.KindRole)
	}
}

func TestCreateDraftValidate_urlFieldsOptional(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{
		Email:    "a@b.co",
		Nickname: str("fine_name"),
		Role:     "ADMIN",
		Password: "Sup3rsecret",
	}

	p, err := d.Validate(gen)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.ProfilePictureURL != nil || p.LinkedinProfileURL != nil || p.GithubProfileURL != nil {
		t.Errorf("absent URLs leaked into the profile: %+v", p)
	}
}

func TestCreateDraftValidate_idempotentOnNormalizedOutput(t *testing.T) {
	gen := &stubGen{}
	d := &users.CreateDraft{
		Email:    "MiXed@Case.Org",
		Nickname: str("stable_name"),
		Role:     "MODERATOR",
		Password: "Sup3rsecret",
	}

	p1, err := d.Validate(gen)
	if err != nil {
		t.Fatalf("first Validate: %v", err)
	}

	// Feeding the normalized output back through yields the same verdict
	// and the same values.
	d2 := &users.CreateDraft{
		Email:    p1.Email,
		Nickname: &p1.Nickname,
		Role:     string(p1.Role),
		Password: p1.Password,
	}
	p2, err := d2.Validate(gen)
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if p2.Email != p1.Email || p2.Nickname != p1.Nickname || p2.Role != p1.Role {
		t.Errorf("normalization is not stable: %+v vs %+v", p1, p2)
	}
}

// ── UpdateDraft ───────────────────────────────────────────────────────────

func TestUpdateDraftValidate_emptyRejectedFirst(t *testing.T) {
	for name, d := range map[string]*users.UpdateDraft{
		"no fields":     {},
		"empty strings": {Email: str(""), Bio: str(""), Role: str("")},
	} {
		_, err := d.Validate()
		if !errors.Is(err, users.ErrEmptyUpdate) {
			t.Errorf("%s: got %v, want ErrEmptyUpdate", name, err)
		}
	}
}

func TestUpdateDraftValidate_presentEmptyValueIsValidated(t *testing.T) {
	// One real field keeps the draft non-empty, so the explicit "" email
	// reaches the format check instead of the empty-update guard.
	d := &users.UpdateDraft{Email: str(""), Bio: str("still here")}

	_, err := d.Validate()
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "email" {
		t.Errorf("unexpected violations: %+v", verrs)
	}
}

func TestUpdateDraftValidate_roleOnly(t *testing.T) {
	d := &users.UpdateDraft{Role: str("MODERATOR")}

	p, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Role == nil || *p.Role != users.RoleModerator {
		t.Errorf("unexpected role patch: %v", p.Role)
	}
	if p.Email != nil || p.Nickname != nil {
		t.Error("untouched fields must stay nil")
	}
}

func TestUpdateDraftValidate_absentFieldsStayNil(t *testing.T) {
	d := &users.UpdateDraft{Bio: str("Ops. Coffee.")}

	p, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Bio == nil || *p.Bio != "Ops. Coffee." {
		t.Errorf("bio not carried: %v", p.Bio)
	}
	if p.Email != nil || p.Nickname != nil || p.Role != nil ||
		p.FirstName != nil || p.LastName != nil ||
		p.ProfilePictureURL != nil || p.LinkedinProfileURL != nil || p.GithubProfileURL != nil {
		t.Errorf("absent fields leaked into the patch: %+v", p)
	}
}

func TestUpdateDraftValidate_aggregatesFailures(t *testing.T) {
	d := &users.UpdateDraft{
		Nickname:         str("x"),
		GithubProfileURL: str("https://github.com/x/y"),
		Role:             str("ROOT"),
	}

	_, err := d.Validate()
	verrs, ok := users.AsViolations(err)
	if !ok {
		t.Fatalf("expected Violations, got %v", err)
	}
	if len(verrs) != 3 {
		t.Errorf("expected 3 violations, got %d: %v", len(verrs), verrs)
	}
}

func TestUpdateDraftValidate_normalizesEmail(t *testing.T) {
	d := &users.UpdateDraft{Email: str("NEW@Acme.COM")}

	p, err := d.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Email == nil || *p.Email != "new@acme.com" {
		t.Errorf("email not normalized: %v", p.Email)
	}
}
