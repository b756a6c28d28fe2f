package users

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field format rules. The profile URL patterns stop at the username
// segment: repository paths, query strings, and fragments are not
// profile links.
var (
	genericURLRe  = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	githubURLRe   = regexp.MustCompile(`^https?://(?:www\.)?github\.com/[A-Za-z0-9_-]+/?$`)
	linkedinURLRe = regexp.MustCompile(`^https?://(?:www\.)?linkedin\.com/in/[A-Za-z0-9_%-]+/?$`)
	nicknameRe    = regexp.MustCompile(`^[\w-]+$`)
)

var errInvalidEmail = errors.New("invalid email address")

// normalizeEmail parses s as a bare local@domain address and returns it
// lowercased. Display names and domains without a dot are rejected.
func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" {
		return "", errInvalidEmail
	}
	at := strings.LastIndexByte(addr.Address, '@')
	if at <= 0 || !strings.Contains(addr.Address[at+1:], ".") {
		return "", errInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// ValidateEmail reports whether s is a syntactically valid email address.
func ValidateEmail(s string) error {
	_, err := normalizeEmail(s)
	return err
}

// ValidateNickname checks length and charset: at least three characters
// drawn from letters, digits, underscores, and hyphens.
func ValidateNickname(s string) error {
	if utf8.RuneCountInString(s) < 3 {
		return errors.New("nickname must be at least 3 characters")
	}
	if !nicknameRe.MatchString(s) {
		return errors.New("nickname may only contain letters, digits, underscores, and hyphens")
	}
	return nil
}

// ValidatePassword enforces the password policy: at least 8 characters
// with one uppercase letter, one lowercase letter, and one digit. The
// rules are checked in that order and the first unmet rule is reported.
func ValidatePassword(s string) error {
	if utf8.RuneCountInString(s) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		return errors.New("password must contain at least one uppercase letter")
	case !lower:
		return errors.New("password must contain at least one lowercase letter")
	case !digit:
		return errors.New("password must contain at least one digit")
	}
	return nil
}

// ValidateGenericURL accepts any http or https URL free of whitespace.
func ValidateGenericURL(s string) error {
	if !genericURLRe.MatchString(s) {
		return errors.New("invalid URL format")
	}
	return nil
}

// ValidateGithubURL accepts links to a GitHub profile page.
func ValidateGithubURL(s string) error {
	if !githubURLRe.MatchString(s) {
		return errors.New("invalid GitHub profile URL: expected https://github.com/<username>")
	}
	return nil
}

// ValidateLinkedinURL accepts links to a LinkedIn profile page.
func ValidateLinkedinURL(s string) error {
	if !linkedinURLRe.MatchString(s) {
		return errors.New("invalid LinkedIn profile URL: expected https://www.linkedin.com/in/<username>")
	}
	return nil
}
