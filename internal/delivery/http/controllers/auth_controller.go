package controllers

import (
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	h "courtshare/internal/delivery/http/helpers"
	"courtshare/internal/domain"
)

const (
	oauthSessionName = "courtshare_oauth"
	oauthStateKey    = "state"
	oauthStateMaxAge = 600
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email    string `json:"email" example:"ploy@example.com"`
	Password string `json:"password" example:"correct-horse"`
	Name     string `json:"name" example:"Ploy"`
}

// LoginRequest is the request body for POST /auth/login. Method defaults to "password";
// "email_code" uses email and code. Google and LINE use the redirect flow instead.
type LoginRequest struct {
	Method   string `json:"method" example:"password" enums:"password,email_code"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// LoginCodeRequest is the request body for POST /auth/login-code
type LoginCodeRequest struct {
	Email string `json:"email"`
}

// LoginResponse is the response body of a successful sign-in
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	User      *domain.Identity `json:"user"`
}

// LoginSuccessResponse is the success response envelope for sign-in endpoints (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// UserSuccessResponse is the success response envelope for POST /auth/signup (201).
type UserSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

type AuthController struct {
	Logger    *slog.Logger
	Service   domain.AuthService
	Providers map[string]domain.IdentityProvider
	Sessions  sessions.Store
}

// NewAuthController wires the auth endpoints. providers is keyed by provider name ("google",
// "line"); a provider that is not configured is simply absent.
func NewAuthController(logger *slog.Logger, svc domain.AuthService, providers map[string]domain.IdentityProvider, store sessions.Store) *AuthController {
	return &AuthController{
		Logger:    logger,
		Service:   svc,
		Providers: providers,
		Sessions:  store,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a user with email, password, and name. An account created by email code or external sign-in gets the password attached.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), domain.SignUpInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with a password or a one-time email code. Returns a JWT carrying the user's id, name and email.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if domain.IsOAuthMethod(req.Method) {
		h.WriteFieldError(w, "method", "use /auth/"+req.Method+" to sign in with "+req.Method)
		return
	}
	c.login(w, r, req.Method, domain.Credentials{Email: req.Email, Password: req.Password, Code: req.Code})
}

// RequestLoginCode godoc
// @Summary Email a sign-in code
// @Description Mails a 6-digit code valid for 15 minutes. Sign in with method "email_code".
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginCodeRequest true "Email address"
// @Success 202 {object} helpers.APIResponse "data is null"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login-code [post]
func (c *AuthController) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req LoginCodeRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusAccepted, nil)
}

// OAuthRedirect godoc
// @Summary Start external sign-in
// @Description Stores a random state in a signed cookie and redirects to the provider.
// @Tags auth
// @Param provider path string true "Identity provider" Enums(google, line)
// @Success 302 "redirect to the provider"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (provider not configured)"
// @Router /auth/{provider} [get]
func (c *AuthController) OAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider, ok := c.provider(w, r)
	if !ok {
		return
	}
	state := base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
	session, _ := c.Sessions.Get(r, oauthSessionName)
	session.Values[oauthStateKey] = provider.Name() + ":" + state
	session.Options.MaxAge = oauthStateMaxAge
	session.Options.HttpOnly = true
	session.Options.SameSite = http.SameSiteLaxMode
	if err := session.Save(r, w); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback godoc
// @Summary Finish external sign-in
// @Description Checks the state, exchanges the code and signs the user in, creating the account on first use.
// @Tags auth
// @Produce json
// @Param provider path string true "Identity provider" Enums(google, line)
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (state mismatch)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (provider not configured)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/{provider}/callback [get]
func (c *AuthController) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := c.provider(w, r)
	if !ok {
		return
	}
	session, _ := c.Sessions.Get(r, oauthSessionName)
	want, _ := session.Values[oauthStateKey].(string)
	got := provider.Name() + ":" + r.URL.Query().Get("state")
	delete(session.Values, oauthStateKey)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	// The stored state is bound to the provider that issued the redirect.
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		h.WriteFieldError(w, "state", "invalid oauth state")
		return
	}
	if r.URL.Query().Get("error") != "" {
		h.WriteDomainError(w, r, c.Logger, domain.ErrInvalidCredentials)
		return
	}
	c.login(w, r, provider.Name(), domain.Credentials{Code: r.URL.Query().Get("code")})
}

func (c *AuthController) provider(w http.ResponseWriter, r *http.Request) (domain.IdentityProvider, bool) {
	name := r.PathValue("provider")
	provider, ok := c.Providers[name]
	if !ok || !domain.IsOAuthMethod(name) {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "sign-in with "+name+" is not configured")
		return nil, false
	}
	return provider, true
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request, method string, creds domain.Credentials) {
	token, identity, err := c.Service.Login(r.Context(), method, creds)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: identity})
}
