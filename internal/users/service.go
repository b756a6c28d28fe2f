package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rosterhq/roster/internal/audit"
	"github.com/rosterhq/roster/internal/email"
	"github.com/rosterhq/roster/internal/nickname"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidLogin is returned for any failed credential check. Callers
// must not learn whether the email or the password was wrong.
var ErrInvalidLogin = errors.New("invalid email or password")

// Pagination bounds applied to every list call.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// userRepo is the storage interface consumed by UserService.
type userRepo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByNickname(ctx context.Context, nickname string) (*User, error)
	List(ctx context.Context, page, size int) ([]*User, int, error)
	Update(ctx context.Context, id uuid.UUID, p *Patch) (*User, error)
	SetProfessional(ctx context.Context, id uuid.UUID, professional bool) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Notifier fans out account events to external subscribers.
// *webhooks.Service satisfies this interface.
type Notifier interface {
	Dispatch(ctx context.Context, eventType string, payload map[string]string)
}

// UserService implements business logic for roster account management.
type UserService struct {
	repo      userRepo
	nicknames nickname.Generator
	mailer    email.Sender
	ledger    audit.Ledger // nil = no audit writes
	hooks     Notifier     // nil = no event dispatch
	logger    *zap.Logger
}

// NewUserService creates a new UserService.
// ledger and hooks may each be nil to disable that feature.
func NewUserService(repo userRepo, gen nickname.Generator, mailer email.Sender, ledger audit.Ledger, hooks Notifier, logger *zap.Logger) *UserService {
	return &UserService{
		repo:      repo,
		nicknames: gen,
		mailer:    mailer,
		ledger:    ledger,
		hooks:     hooks,
		logger:    logger,
	}
}

// Create validates the draft, hashes the password, and stores the new
// account. Validation failures come back as Violations; duplicate email
// or nickname surface as the repository sentinels.
func (s *UserService) Create(ctx context.Context, d *CreateDraft) (*User, error) {
	p, err := d.Validate(s.nicknames)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:              p.Email,
		PasswordHash:       string(hash),
		Nickname:           p.Nickname,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Bio:                p.Bio,
		ProfilePictureURL:  p.ProfilePictureURL,
		LinkedinProfileURL: p.LinkedinProfileURL,
		GithubProfileURL:   p.GithubProfileURL,
		Role:               p.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.appendAudit(ctx, u.ID, "user.created", audit.ActorFrom(ctx, "signup"), map[string]string{
		"email":    u.Email,
		"nickname": u.Nickname,
		"role":     string(u.Role),
	})
	s.notify(ctx, "user.created", map[string]string{
		"user_id":  u.ID.String(),
		"nickname": u.Nickname,
		"role":     string(u.Role),
	})

	s.sendWelcome(ctx, u)
	return u, nil
}

// Authenticate verifies email/password credentials and returns the user
// on success.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (*User, error) {
	normalized, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	u, err := s.repo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByNickname retrieves a user by their nickname.
func (s *UserService) GetByNickname(ctx context.Context, nick string) (*User, error) {
	return s.repo.GetByNickname(ctx, nick)
}

// List returns one page of users as outward records plus the total
// count. Page and size are clamped to sane bounds before the query.
func (s *UserService) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	items, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, err
	}

	pub := make([]*Public, len(items))
	for i, u := range items {
		pub[i] = u.Public()
	}
	return &Page{Items: pub, Total: total, Page: page, Size: size}, nil
}

// Update validates the partial draft and applies it to the stored
// record. An empty draft fails with ErrEmptyUpdate before any field
// rule runs.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, d *UpdateDraft) (*User, error) {
	p, err := d.Validate()
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, u.ID, "user.updated", audit.ActorFrom(ctx, "roster-system"), map[string]string{
		"email":    u.Email,
		"nickname": u.Nickname,
	})
	s.notify(ctx, "user.updated", map[string]string{
		"user_id":  u.ID.String(),
		"nickname": u.Nickname,
	})

	return u, nil
}

// SetProfessional flips the professional flag on an account.
func (s *UserService) SetProfessional(ctx context.Context, id uuid.UUID, professional bool) (*User, error) {
	u, err := s.repo.SetProfessional(ctx, id, professional)
	if err != nil {
		return nil, err
	}

	flag := strconv.FormatBool(professional)
	s.appendAudit(ctx, u.ID, "user.professional_set", audit.ActorFrom(ctx, "roster-system"), map[string]string{
		"professional": flag,
	})
	s.notify(ctx, "user.professional_changed", map[string]string{
		"user_id":      u.ID.String(),
		"nickname":     u.Nickname,
		"professional": flag,
	})

	return u, nil
}

// Delete removes an account. The record is fetched first so the audit
// entry and the deletion event can name it.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.appendAudit(ctx, id, "user.deleted", audit.ActorFrom(ctx, "roster-system"), map[string]string{
		"email":    u.Email,
		"nickname": u.Nickname,
	})
	s.notify(ctx, "user.deleted", map[string]string{
		"user_id":  id.String(),
		"nickname": u.Nickname,
	})

	return nil
}

// appendAudit appends an entry to the audit ledger in a non-fatal manner.
func (s *UserService) appendAudit(ctx context.Context, userID uuid.UUID, action, actor string, payload any) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.Append(ctx, userID.String(), action, actor, payload); err != nil {
		s.logger.Error("audit append failed (non-fatal)",
			zap.String("action", action),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

// notify dispatches an account event to webhook subscribers.
func (s *UserService) notify(ctx context.Context, eventType string, payload map[string]string) {
	if s.hooks == nil {
		return
	}
	s.hooks.Dispatch(ctx, eventType, payload)
}

// sendWelcome emails the new account holder. Failures are logged and
// never fatal; the account exists either way.
func (s *UserService) sendWelcome(ctx context.Context, u *User) {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour roster account is ready. Sign in with %s to manage your profile.\n",
		u.Nickname, u.Email,
	)
	if err := s.mailer.Send(ctx, u.Email, "Welcome to roster", body); err != nil {
		s.logger.Warn("send welcome email",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}
}
