package users

import (
	"github.com/rosterhq/roster/internal/nickname"
)

// CreateDraft is an inbound signup payload before validation. Optional
// fields are pointers so an absent field can be told apart from an
// empty one.
type CreateDraft struct {
	Email              string  `json:"email"`
	Nickname           *string `json:"nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
	GithubProfileURL   *string `json:"github_profile_url"`
	Role               string  `json:"role"`
	Password           string  `json:"password"`
}

// Profile is the normalized result of a successful create validation:
// email lowercased, nickname resolved, role parsed. Password stays
// plaintext until the service hashes it.
type Profile struct {
	Email              string
	Nickname           string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedinProfileURL *string
	GithubProfileURL   *string
	Role               UserRole
	Password           string
}

// Validate checks every field of the draft and reports all failures
// together, in payload field order. A missing or empty nickname is
// resolved through gen before any format rule would apply; gen is
// called at most once and its output is accepted as-is.
func (d *CreateDraft) Validate(gen nickname.Generator) (*Profile, error) {
	var v Violations
	p := &Profile{
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Bio:                d.Bio,
		ProfilePictureURL:  d.ProfilePictureURL,
		LinkedinProfileURL: d.LinkedinProfileURL,
		GithubProfileURL:   d.GithubProfileURL,
	}

	if d.Email == "" {
		v.required("email")
	} else if email, err := normalizeEmail(d.Email); err != nil {
		v.addErr("email", KindFormat, err)
	} else {
		p.Email = email
	}

	if d.Nickname == nil || *d.Nickname == "" {
		nick, err := gen.Generate()
		if err != nil {
			v.addErr("nickname", KindCollaborator, err)
		} else {
			p.Nickname = nick
		}
	} else if err := ValidateNickname(*d.Nickname); err != nil {
		v.addErr("nickname", KindFormat, err)
	} else {
		p.Nickname = *d.Nickname
	}

	if d.ProfilePictureURL != nil {
		if err := ValidateGenericURL(*d.ProfilePictureURL); err != nil {
			v.addErr("profile_picture_url", KindFormat, err)
		}
	}
	if d.LinkedinProfileURL != nil {
		if err := ValidateLinkedinURL(*d.LinkedinProfileURL); err != nil {
			v.addErr("linkedin_profile_url", KindFormat, err)
		}
	}
	if d.GithubProfileURL != nil {
		if err := ValidateGithubURL(*d.GithubProfileURL); err != nil {
			v.addErr("github_profile_url", KindFormat, err)
		}
	}

	if d.Role == "" {
		v.required("role")
	} else if role, err := ParseRole(d.Role); err != nil {
		v.addErr("role", KindRole, err)
	} else {
		p.Role = role
	}

	if d.Password == "" {
		v.required("password")
	} else if err := ValidatePassword(d.Password); err != nil {
		v.addErr("password", KindFormat, err)
	} else {
		p.Password = d.Password
	}

	if len(v) > 0 {
		return nil, v
	}
	return p, nil
}

// UpdateDraft is an inbound partial-update payload. Nil means the
// field was not sent.
type UpdateDraft struct {
	Email              *string `json:"email"`
	Nickname           *string `json:"nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
	GithubProfileURL   *string `json:"github_profile_url"`
	Role               *string `json:"role"`
}

// Patch carries the validated present fields of an update. Nil leaves
// the stored value unchanged.
type Patch struct {
	Email              *string
	Nickname           *string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedinProfileURL *string
	GithubProfileURL   *string
	Role               *UserRole
}

// Empty reports whether the draft carries no usable value at all.
// A field that is absent or an empty string both count as missing.
func (d *UpdateDraft) Empty() bool {
	for _, s := range []*string{
		d.Email, d.Nickname, d.FirstName, d.LastName, d.Bio,
		d.ProfilePictureURL, d.LinkedinProfileURL, d.GithubProfileURL, d.Role,
	} {
		if s != nil && *s != "" {
			return false
		}
	}
	return true
}

// Validate rejects an empty draft before any field rule runs, then
// checks each present field and reports all failures together. A draft
// carrying only a role change is a legitimate update.
func (d *UpdateDraft) Validate() (*Patch, error) {
	if d.Empty() {
		return nil, ErrEmptyUpdate
	}

	var v Violations
	p := &Patch{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Bio:       d.Bio,
	}

	if d.Email != nil {
		if email, err := normalizeEmail(*d.Email); err != nil {
			v.addErr("email", KindFormat, err)
		} else {
			p.Email = &email
		}
	}
	if d.Nickname != nil {
		if err := ValidateNickname(*d.Nickname); err != nil {
			v.addErr("nickname", KindFormat, err)
		} else {
			p.Nickname = d.Nickname
		}
	}
	if d.ProfilePictureURL != nil {
		if err := ValidateGenericURL(*d.ProfilePictureURL); err != nil {
			v.addErr("profile_picture_url", KindFormat, err)
		} else {
			p.ProfilePictureURL = d.ProfilePictureURL
		}
	}
	if d.LinkedinProfileURL != nil {
		if err := ValidateLinkedinURL(*d.LinkedinProfileURL); err != nil {
			v.addErr("linkedin_profile_url", KindFormat, err)
		} else {
			p.LinkedinProfileURL = d.LinkedinProfileURL
		}
	}
	if d.GithubProfileURL != nil {
		if err := ValidateGithubURL(*d.GithubProfileURL); err != nil {
			v.addErr("github_profile_url", KindFormat, err)
		} else {
			p.GithubProfileURL = d.GithubProfileURL
		}
	}
	if d.Role != nil {
		if role, err := ParseRole(*d.Role); err != nil {
			v.addErr("role", KindRole, err)
		} else {
			p.Role = &role
		}
	}

	if len(v) > 0 {
		return nil, v
	}
	return p, nil
}
