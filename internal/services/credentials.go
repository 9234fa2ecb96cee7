package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtshare/internal/domain"
)

const (
	loginCodeDigits      = 6
	loginCodeExpiryMins  = 15
	loginCodeMaxAttempts = 5
)

var loginCodeRegex = regexp.MustCompile(`^\d{6}$`)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// passwordVerifier signs users in with email and password.
type passwordVerifier struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
}

// NewPasswordVerifier returns a CredentialVerifier for email/password sign-in.
func NewPasswordVerifier(users domain.UserRepository, hasher domain.PasswordHasher) domain.CredentialVerifier {
	return &passwordVerifier{users: users, hasher: hasher}
}

func (v *passwordVerifier) Verify(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := v.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.HasPassword() {
		return nil, domain.ErrInvalidCredentials
	}
	if err := v.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return domain.IdentityOf(user), nil
}

// emailCodeVerifier signs users in with a one-time code mailed to them, creating the account
// on first use.
type emailCodeVerifier struct {
	users      domain.UserRepository
	loginCodes domain.LoginCodeRepository
	now        func() time.Time
}

// NewEmailCodeVerifier returns a CredentialVerifier for one-time email codes.
func NewEmailCodeVerifier(users domain.UserRepository, loginCodes domain.LoginCodeRepository) domain.CredentialVerifier {
	return &emailCodeVerifier{users: users, loginCodes: loginCodes, now: time.Now}
}

func (v *emailCodeVerifier) Verify(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	email := normalizeEmail(creds.Email)
	code := strings.TrimSpace(creds.Code)
	if email == "" || !loginCodeRegex.MatchString(code) {
		return nil, domain.ErrInvalidCredentials
	}
	consumed, err := v.loginCodes.Consume(ctx, email, hashLoginCode(code), loginCodeMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("consume login code: %w", err)
	}
	if !consumed {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := findOrCreateUser(ctx, v.users, email, "", v.now())
	if err != nil {
		return nil, err
	}
	return domain.IdentityOf(user), nil
}

// oauthVerifier signs users in through an external identity provider. Credentials.Code is the
// provider's authorization code.
type oauthVerifier struct {
	provider domain.IdentityProvider
	users    domain.UserRepository
	now      func() time.Time
}

// NewOAuthVerifier returns a CredentialVerifier backed by provider.
func NewOAuthVerifier(provider domain.IdentityProvider, users domain.UserRepository) domain.CredentialVerifier {
	return &oauthVerifier{provider: provider, users: users, now: time.Now}
}

func (v *oauthVerifier) Verify(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if creds.Code == "" {
		return nil, domain.ErrInvalidCredentials
	}
	profile, err := v.provider.Exchange(ctx, creds.Code)
	if err != nil {
		return nil, fmt.Errorf("%s exchange: %w", v.provider.Name(), err)
	}
	email := normalizeEmail(profile.Email)
	if email == "" || !profile.EmailVerified {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := findOrCreateUser(ctx, v.users, email, profile.Name, v.now())
	if err != nil {
		return nil, err
	}
	return domain.IdentityOf(user), nil
}

func findOrCreateUser(ctx context.Context, users domain.UserRepository, email, name string, now time.Time) (*domain.User, error) {
	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user = domain.NewUser(uuid.NewString(), email, strings.TrimSpace(name), now, now)
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// generateLoginCode returns a uniformly random zero-padded code of the given length.
func generateLoginCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
