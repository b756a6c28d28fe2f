package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents a stored roster account.
type User struct {
	ID                 uuid.UUID `json:"id"                   db:"id"`
	Email              string    `json:"email"                db:"email"`
	PasswordHash       string    `json:"-"                    db:"password_hash"`
	Nickname           string    `json:"nickname"             db:"nickname"`
	FirstName          *string   `json:"first_name"           db:"first_name"`
	LastName           *string   `json:"last_name"            db:"last_name"`
	Bio                *string   `json:"bio"                  db:"bio"`
	ProfilePictureURL  *string   `json:"profile_picture_url"  db:"profile_picture_url"`
	LinkedinProfileURL *string   `json:"linkedin_profile_url" db:"linkedin_profile_url"`
	GithubProfileURL   *string   `json:"github_profile_url"   db:"github_profile_url"`
	Role               UserRole  `json:"role"                 db:"role"`
	IsProfessional     bool      `json:"is_professional"      db:"is_professional"`
	CreatedAt          time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"           db:"updated_at"`
}

// Public is the outward view of a user: the server-assigned id, the
// profile fields, and never any credential material.
type Public struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Nickname           string    `json:"nickname"`
	FirstName          *string   `json:"first_name"`
	LastName           *string   `json:"last_name"`
	Bio                *string   `json:"bio"`
	ProfilePictureURL  *string   `json:"profile_picture_url"`
	LinkedinProfileURL *string   `json:"linkedin_profile_url"`
	GithubProfileURL   *string   `json:"github_profile_url"`
	Role               UserRole  `json:"role"`
	IsProfessional     bool      `json:"is_professional"`
}

// Public builds the outward view of u. A fresh value is returned on
// every call.
func (u *User) Public() *Public {
	return &Public{
		ID:                 u.ID,
		Email:              u.Email,
		Nickname:           u.Nickname,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		LinkedinProfileURL: u.LinkedinProfileURL,
		GithubProfileURL:   u.GithubProfileURL,
		Role:               u.Role,
		IsProfessional:     u.IsProfessional,
	}
}
