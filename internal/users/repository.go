package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a user lookup finds no matching record.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a signup or update attempts to use an already-registered email.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateNickname is returned when the requested nickname is already taken.
var ErrDuplicateNickname = errors.New("nickname already taken")

// UserRepository provides CRUD operations for users against PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user record. Sets ID, CreatedAt, UpdatedAt on the user.
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	q := `
		INSERT INTO users (id, email, password_hash, nickname, first_name, last_name, bio,
			profile_picture_url, linkedin_profile_url, github_profile_url, role,
			is_professional, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Nickname, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.LinkedinProfileURL, u.GithubProfileURL, u.Role,
		u.IsProfessional, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if dup := mapDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their internal UUID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanOne(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

// GetByNickname retrieves a user by their nickname.
func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*User, error) {
	return r.scanOne(ctx, `SELECT * FROM users WHERE nickname = $1`, nickname)
}

// List returns one page of users in creation order plus the total count
// across all pages. page is 1-based.
func (r *UserRepository) List(ctx context.Context, page, size int) ([]*User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q := `SELECT * FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, q, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*User, 0, size)
	for rows.Next() {
		u, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of p to the stored record and
// returns the refreshed row.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, p *Patch) (*User, error) {
	sets := make([]string, 0, 10)
	args := []any{id}
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Email != nil {
		set("email", *p.Email)
	}
	if p.Nickname != nil {
		set("nickname", *p.Nickname)
	}
	if p.FirstName != nil {
		set("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		set("last_name", *p.LastName)
	}
	if p.Bio != nil {
		set("bio", *p.Bio)
	}
	if p.ProfilePictureURL != nil {
		set("profile_picture_url", *p.ProfilePictureURL)
	}
	if p.LinkedinProfileURL != nil {
		set("linkedin_profile_url", *p.LinkedinProfileURL)
	}
	if p.GithubProfileURL != nil {
		set("github_profile_url", *p.GithubProfileURL)
	}
	if p.Role != nil {
		set("role", *p.Role)
	}
	set("updated_at", time.Now().UTC())

	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		if dup := mapDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SetProfessional flips the professional flag and returns the refreshed row.
func (r *UserRepository) SetProfessional(ctx context.Context, id uuid.UUID, professional bool) (*User, error) {
	q := `UPDATE users SET is_professional = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, professional, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("set professional: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user record.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapDuplicate translates a unique-constraint violation into the matching
// sentinel, or returns nil for any other error.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "users_nickname_key" {
			return ErrDuplicateNickname
		}
		return ErrDuplicateEmail
	}
	return nil
}

// scanOne executes a single-row query and scans the result into a User.
func (r *UserRepository) scanOne(ctx context.Context, q string, args ...any) (*User, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	u, err := scanRow(rows)
	if err != nil {
		return nil, err
	}
	return u, rows.Err()
}

// scanRow reads the current row into a User. Column order matches the
// users table definition: id, email, password_hash, nickname, first_name,
// last_name, bio, profile_picture_url, linkedin_profile_url,
// github_profile_url, role, is_professional, created_at, updated_at.
func scanRow(rows pgx.Rows) (*User, error) {
	var u User
	if err := rows.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.FirstName, &u.LastName,
		&u.Bio, &u.ProfilePictureURL, &u.LinkedinProfileURL, &u.GithubProfileURL,
		&u.Role, &u.IsProfessional, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
