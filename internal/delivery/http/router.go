package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"courtshare/internal/delivery/http/controllers"
	"courtshare/internal/delivery/http/middleware"
	"courtshare/internal/domain"

	_ "courtshare/internal/delivery/http/docs"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Participants *controllers.ParticipantController
	Groups       *controllers.GroupController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	required := middleware.RequireAuth(verifier)
	optional := middleware.OptionalAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/login-code", c.Auth.RequestLoginCode)
	mux.HandleFunc("GET /auth/{provider}", c.Auth.OAuthRedirect)
	mux.HandleFunc("GET /auth/{provider}/callback", c.Auth.OAuthCallback)

	// Events
	mux.HandleFunc("GET /events", optional(c.Events.ListUpcoming))
	mux.HandleFunc("GET /events/past", c.Events.ListPast)
	mux.HandleFunc("GET /events/{eventID}", optional(c.Events.GetEvent))
	mux.HandleFunc("GET /events/{eventID}/admin", required(c.Events.GetAdminSummary))
	mux.HandleFunc("POST /events/{eventID}/participants", required(c.Participants.Join))
	mux.HandleFunc("DELETE /events/{eventID}/participants/me", required(c.Participants.Cancel))

	// Groups
	mux.HandleFunc("POST /groups", required(c.Groups.CreateGroup))
	mux.HandleFunc("GET /groups/{groupID}", optional(c.Groups.GetGroup))
	mux.HandleFunc("POST /groups/{groupID}/events", required(c.Events.CreateEvent))
	mux.HandleFunc("POST /groups/{groupID}/follow", required(c.Groups.ToggleFollow))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the request-scoped middleware chain.
func NewHandler(mux http.Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux)))
}
