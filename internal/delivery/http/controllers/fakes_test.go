package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"courtshare/internal/delivery/http/helpers"
	"courtshare/internal/delivery/http/middleware"
	"courtshare/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "6f1c2b9e-3d4a-4f5b-8c7d-1e2f3a4b5c6d"
	testGroupID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
)

var testUser = &domain.Identity{ID: "user-1", Name: "Ploy", Email: "ploy@example.com"}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err           error
	created       *domain.Event
	lastInput     domain.CreateEventInput
	lastRequester *domain.Identity
	lastFollowed  bool
	lastPage      domain.PaginationParams
	lastLimit     int
	upcoming      []*domain.EventListItem
	upcomingTotal int
	past          []*domain.EventListItem
	detail        *domain.EventDetail
	summary       *domain.AdminSummary
	calls         int
}

func (f *fakeEventService) CreateEvent(_ context.Context, input domain.CreateEventInput, requester *domain.Identity) (*domain.Event, error) {
	f.calls++
	f.lastInput, f.lastRequester = input, requester
	return f.created, f.err
}

func (f *fakeEventService) GetAdminSummary(_ context.Context, _ string, requester *domain.Identity) (*domain.AdminSummary, error) {
	f.calls++
	f.lastRequester = requester
	return f.summary, f.err
}

func (f *fakeEventService) GetEventDetail(_ context.Context, _ string, requester *domain.Identity) (*domain.EventDetail, error) {
	f.calls++
	f.lastRequester = requester
	return f.detail, f.err
}

func (f *fakeEventService) ListUpcoming(_ context.Context, requester *domain.Identity, onlyFollowed bool, page domain.PaginationParams) ([]*domain.EventListItem, int, error) {
	f.calls++
	f.lastRequester, f.lastFollowed, f.lastPage = requester, onlyFollowed, page
	return f.upcoming, f.upcomingTotal, f.err
}

func (f *fakeEventService) ListPast(_ context.Context, limit int) ([]*domain.EventListItem, error) {
	f.calls++
	f.lastLimit = limit
	return f.past, f.err
}

// fakeParticipationService implements domain.ParticipationService.
type fakeParticipationService struct {
	err         error
	lastAction  string
	lastEventID string
	lastUser    *domain.Identity
}

func (f *fakeParticipationService) Join(_ context.Context, eventID string, requester *domain.Identity) (*domain.Participant, error) {
	return f.record("join", eventID, requester, domain.ParticipantJoined)
}

func (f *fakeParticipationService) Cancel(_ context.Context, eventID string, requester *domain.Identity) (*domain.Participant, error) {
	return f.record("cancel", eventID, requester, domain.ParticipantCancelled)
}

func (f *fakeParticipationService) record(action, eventID string, requester *domain.Identity, status domain.ParticipantStatus) (*domain.Participant, error) {
	f.lastAction, f.lastEventID, f.lastUser = action, eventID, requester
	if f.err != nil {
		return nil, f.err
	}
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.Participant{ID: "p-1", EventID: eventID, UserID: requester.ID, Status: status}, nil
}

// fakeGroupService implements domain.GroupService.
type fakeGroupService struct {
	err           error
	following     bool
	detail        *domain.GroupDetail
	lastInput     domain.CreateGroupInput
	lastGroupID   string
	lastRequester *domain.Identity
}

func (f *fakeGroupService) CreateGroup(_ context.Context, input domain.CreateGroupInput, requester *domain.Identity) (*domain.Group, error) {
	f.lastInput, f.lastRequester = input, requester
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Group{ID: testGroupID, Name: input.Name, Description: input.Description}, nil
}

func (f *fakeGroupService) GetGroup(_ context.Context, groupID string, requester *domain.Identity) (*domain.GroupDetail, error) {
	f.lastGroupID, f.lastRequester = groupID, requester
	return f.detail, f.err
}

func (f *fakeGroupService) ToggleFollow(_ context.Context, groupID string, requester *domain.Identity) (bool, error) {
	f.lastGroupID, f.lastRequester = groupID, requester
	return f.following, f.err
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	err        error
	lastSignUp domain.SignUpInput
	lastMethod string
	lastCreds  domain.Credentials
	lastEmail  string
}

func (f *fakeAuthService) SignUp(_ context.Context, input domain.SignUpInput) (*domain.User, error) {
	f.lastSignUp = input
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: "user-1", Email: input.Email, Name: input.Name, PasswordHash: "secret-hash"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, method string, creds domain.Credentials) (string, *domain.Identity, error) {
	f.lastMethod, f.lastCreds = method, creds
	if f.err != nil {
		return "", nil, f.err
	}
	return "token-user-1", testUser, nil
}

func (f *fakeAuthService) RequestLoginCode(_ context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

// fakeIdentityProvider implements domain.IdentityProvider.
type fakeIdentityProvider struct {
	name string
}

func (p fakeIdentityProvider) Name() string { return p.name }

func (p fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://" + p.name + ".example/auth?state=" + state
}

func (fakeIdentityProvider) Exchange(context.Context, string) (*domain.ExternalProfile, error) {
	return nil, nil
}

// fakeViews implements helpers.ViewVersions.
type fakeViews struct {
	versions map[string]uint64
}

func (f *fakeViews) Epoch() string { return "test" }

func (f *fakeViews) Version(view domain.View) uint64 { return f.versions[view.String()] }

// serve routes req through a mux registered like the application router, optionally as user.
func serve(pattern string, handler http.HandlerFunc, req *http.Request, user *domain.Identity) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	if user != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), user))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}
