package domain

import "context"

// Login methods accepted by AuthService.Login.
const (
	LoginMethodPassword  = "password"
	LoginMethodEmailCode = "email_code"
	LoginMethodGoogle    = "google"
	LoginMethodLine      = "line"
)

// IsOAuthMethod reports whether method signs in through an external provider's redirect flow.
func IsOAuthMethod(method string) bool {
	return method == LoginMethodGoogle || method == LoginMethodLine
}

// Credentials carries whatever a login method needs. Password sign-in uses Email and Password,
// email-code sign-in uses Email and Code, OAuth sign-in (Google, LINE) uses Code (the authorization code).
type Credentials struct {
	Email    string
	Password string
	Code     string
}

// CredentialVerifier turns credentials into an authenticated identity.
// It returns ErrInvalidCredentials when the credentials do not identify anybody.
type CredentialVerifier interface {
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}

// ExternalProfile is the identity returned by an external identity provider.
type ExternalProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityProvider exchanges an authorization code with an external provider.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalProfile, error)
}

// AuthService handles sign-up and sign-in.
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*User, error)
	Login(ctx context.Context, method string, creds Credentials) (token string, identity *Identity, err error)
	RequestLoginCode(ctx context.Context, email string) error
}
