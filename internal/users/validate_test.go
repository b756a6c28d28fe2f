package users_test

import (
	"strings"
	"testing"

	"github.com/rosterhq/roster/internal/users"
)

// ── Email ─────────────────────────────────────────────────────────────────

func TestValidateEmail_accepts(t *testing.T) {
	for _, addr := range []string{
		"user@example.com",
		"first.last+tag@sub.domain.co",
		"UPPER@ACME.COM",
		"  padded@acme.com  ",
	} {
		if err := users.ValidateEmail(addr); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", addr, err)
		}
	}
}

func TestValidateEmail_rejects(t *testing.T) {
	for _, addr := range []string{
		"",
		"no-at-sign",
		"user@domain",            // no dot in the domain
		"Alice <alice@acme.com>", // display names are not bare addresses
		"two@@acme.com",
		"@acme.com",
	} {
		if err := users.ValidateEmail(addr); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", addr)
		}
	}
}

// ── Nickname ──────────────────────────────────────────────────────────────

func TestValidateNickname(t *testing.T) {
	cases := []struct {
		nick string
		ok   bool
	}{
		{"abc", true},
		{"user_name-1", true},
		{"night-watch", true},
		{"swift_otter_042", true},
		{"ab", false}, // below the 3-character minimum
		{"", false},
		{"bad name", false}, // spaces
		{"héllo", false},    // word chars are ASCII only
		{"semi;colon", false},
	}
	for _, c := range cases {
		err := users.ValidateNickname(c.nick)
		if c.ok && err != nil {
			t.Errorf("ValidateNickname(%q) = %v, want nil", c.nick, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidateNickname(%q) = nil, want error", c.nick)
		}
	}
}

func TestValidateNickname_lengthCheckedFirst(t *testing.T) {
	// "!?" breaks both rules; the length rule is the one reported.
	err := users.ValidateNickname("!?")
	if err == nil || !strings.Contains(err.Error(), "at least 3 characters") {
		t.Errorf("expected length violation, got %v", err)
	}
}

// ── Password ──────────────────────────────────────────────────────────────

func TestValidatePassword_firstUnmetRuleWins(t *testing.T) {
	cases := []struct {
		password string
		want     string // substring of the reported rule; empty means valid
	}{
		{"Abcdefg1", ""},
		{"pässwOrd1", ""},                    // non-ASCII letters still count
		{"ab1", "at least 8 characters"},     // short and missing uppercase: length wins
		{"Abcdef1", "at least 8 characters"}, // 7 chars
		{"abcdefg1", "uppercase"},
		{"ABCDEFG1", "lowercase"},
		{"Abcdefgh", "digit"},
		{"12345678", "uppercase"}, // no letters at all: uppercase reported first
	}
	for _, c := range cases {
		err := users.ValidatePassword(c.password)
		if c.want == "" {
			if err != nil {
				t.Errorf("ValidatePassword(%q) = %v, want nil", c.password, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("ValidatePassword(%q) = %v, want rule %q", c.password, err, c.want)
		}
	}
}

// ── Profile URLs ──────────────────────────────────────────────────────────

func TestValidateGenericURL(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://example.com/avatar.png", true},
		{"http://cdn.io/a?size=64", true},
		{"https://a.io", true},
		{"", false},
		{"ftp://example.com/avatar.png", false},
		{"https://", false},
		{"https://exa mple.com", false}, // whitespace
		{"example.com/avatar.png", false},
	}
	for _, c := range cases {
		err := users.ValidateGenericURL(c.url)
		if c.ok && err != nil {
			t.Errorf("ValidateGenericURL(%q) = %v, want nil", c.url, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidateGenericURL(%q) = nil, want error", c.url)
		}
	}
}

func TestValidateGithubURL(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://github.com/alice", true},
		{"https://www.github.com/alice", true},
		{"http://github.com/alice", true},
		{"https://github.com/alice/", true},    // trailing slash allowed
		{"https://github.com/alice-b_2", true}, // hyphens and underscores
		{"https://github.com/alice/repo", false}, // repository, not a profile
		{"https://github.com/", false},
		{"https://gitlab.com/alice", false},
		{"https://github.com/alice?tab=repos", false},
		{"", false},
	}
	for _, c := range cases {
		err := users.ValidateGithubURL(c.url)
		if c.ok && err != nil {
			t.Errorf("ValidateGithubURL(%q) = %v, want nil", c.url, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidateGithubURL(%q) = nil, want error", c.url)
		}
	}
}

func TestValidateLinkedinURL(t *testing.T) {
	cases := []struct {
		url string
		ok  bool
	}{
		{"https://www.linkedin.com/in/alice", true},
		{"https://linkedin.com/in/alice-chen", true},
		{"http://linkedin.com/in/alice_chen/", true},
		{"https://www.linkedin.com/in/ali%C3%A9", true}, // percent escapes
		{"https://www.linkedin.com/alice", false},       // missing /in/
		{"https://www.linkedin.com/in/", false},
		{"https://www.linkedin.com/in/alice/details", false},
		{"https://linked.in/alice", false},
		{"", false},
	}
	for _, c := range cases {
		err := users.ValidateLinkedinURL(c.url)
		if c.ok && err != nil {
			t.Errorf("ValidateLinkedinURL(%q) = %v, want nil", c.url, err)
		}
		if !c.ok && err == nil {
			t.Errorf("ValidateLinkedinURL(%q) = nil, want error", c.url)
		}
	}
}
