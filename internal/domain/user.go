package domain

import (
	"context"
	"time"
)

// User represents a registered community member.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields.
func NewUser(id, email, name string, createdAt, updatedAt time.Time) *User {
	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Identity is the authenticated requester as seen by the core. A nil *Identity means anonymous.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IdentityOf returns the Identity for u.
func IdentityOf(u *User) *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues bearer tokens for an identity.
type TokenIssuer interface {
	Issue(identity *Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetPassword(ctx context.Context, userID, passwordHash string) error
}

// LoginCodeRepository stores one-time email sign-in codes. An email has at most one live code:
// Create replaces any earlier one.
//
// Consume checks codeHash against the email's live code. A match deletes the code and reports
// true. A miss counts a failed attempt; once maxAttempts misses are reached the code is deleted,
// so the right code no longer works and a new one must be requested.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string, maxAttempts int) (consumed bool, err error)
}

// SignUpInput is the payload of an email/password sign-up.
type SignUpInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}
