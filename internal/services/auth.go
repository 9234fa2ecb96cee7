package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtshare/internal/domain"
)

// AuthDeps wires the collaborators of the auth service.
type AuthDeps struct {
	Users       domain.UserRepository
	LoginCodes  domain.LoginCodeRepository
	Hasher      domain.PasswordHasher
	Issuer      domain.TokenIssuer
	TokenExpiry time.Duration
	Emails      domain.EmailService
	// Verifiers maps a login method (domain.LoginMethod*) to its verifier.
	Verifiers map[string]domain.CredentialVerifier
	Logger    *slog.Logger
	Timeout   time.Duration
}

type authService struct {
	users          domain.UserRepository
	loginCodes     domain.LoginCodeRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	tokenExpiry    time.Duration
	emails         domain.EmailService
	verifiers      map[string]domain.CredentialVerifier
	validator      *inputValidator
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService returns the sign-up and sign-in service.
func NewAuthService(deps AuthDeps) domain.AuthService {
	return &authService{
		users:          deps.Users,
		loginCodes:     deps.LoginCodes,
		hasher:         deps.Hasher,
		issuer:         deps.Issuer,
		tokenExpiry:    deps.TokenExpiry,
		emails:         deps.Emails,
		verifiers:      deps.Verifiers,
		validator:      newInputValidator(),
		logger:         deps.Logger,
		contextTimeout: deps.Timeout,
		now:            time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.User, error) {
	input.Name = sanitizeText(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := s.validator.check(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user != nil && user.HasPassword() {
		return nil, domain.NewValidationError("email", "email is already registered")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if user != nil {
		// Account created through another sign-in method; attach the password.
		if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
			return nil, fmt.Errorf("set password: %w", err)
		}
		user.PasswordHash = hash
	} else {
		now := s.now()
		user = domain.NewUser(uuid.NewString(), input.Email, input.Name, now, now)
		user.PasswordHash = hash
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	if s.emails != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Name: user.Name}
		if err := s.emails.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, method string, creds domain.Credentials) (string, *domain.Identity, error) {
	if method == "" {
		method = domain.LoginMethodPassword
	}
	verifier, ok := s.verifiers[method]
	if !ok {
		return "", nil, domain.NewValidationError("method", fmt.Sprintf("unsupported login method %q", method))
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	identity, err := verifier.Verify(ctx, creds)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issuer.Issue(identity, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "user signed in", "user_id", identity.ID, "method", method)
	return token, identity, nil
}

func (s *authService) RequestLoginCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.validator.v.Var(email, "required,email"); err != nil {
		return domain.NewValidationError("email", "email must be a valid email address")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("generate login code: %w", err)
	}
	expiresAt := s.now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodes.Create(ctx, email, hashLoginCode(code), expiresAt); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}
	if s.emails != nil {
		data := &domain.LoginCodeEmailData{Email: email, Code: code, ExpiresInMinutes: loginCodeExpiryMins}
		if err := s.emails.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("send login code: %w", err)
		}
	}
	return nil
}
