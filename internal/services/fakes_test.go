package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"courtshare/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	createErr error
	listErr   error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) sorted(keep func(*domain.Event) bool, desc bool) []*domain.EventListItem {
	var out []*domain.EventListItem
	for _, e := range f.byID {
		if keep(e) {
			out = append(out, &domain.EventListItem{Event: e})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Event.StartAt.After(out[j].Event.StartAt)
		}
		return out[i].Event.StartAt.Before(out[j].Event.StartAt)
	})
	return out
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, filter domain.EventListFilter) ([]*domain.EventListItem, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items := f.sorted(func(e *domain.Event) bool { return !e.EndAt.Before(filter.Now) }, false)
	total := len(items)
	start := filter.Pagination.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Pagination.PageSize
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}

func (f *fakeEventRepo) ListPast(ctx context.Context, now time.Time, limit int) ([]*domain.EventListItem, error) {
	items := f.sorted(func(e *domain.Event) bool { return e.EndAt.Before(now) }, true)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeEventRepo) ListUpcomingByGroup(ctx context.Context, groupID string, now time.Time) ([]*domain.EventListItem, error) {
	return f.sorted(func(e *domain.Event) bool { return e.GroupID == groupID && !e.EndAt.Before(now) }, false), nil
}

// fakeParticipantRepo keeps participant records per event and serialises roster updates.
type fakeParticipantRepo struct {
	mu      sync.Mutex
	events  *fakeEventRepo
	users   map[string]*domain.User
	byEvent map[string][]*domain.Participant
	nextID  int
	saveErr error
}

func newFakeParticipantRepo(events *fakeEventRepo) *fakeParticipantRepo {
	return &fakeParticipantRepo{
		events:  events,
		users:   make(map[string]*domain.User),
		byEvent: make(map[string][]*domain.Participant),
	}
}

func (f *fakeParticipantRepo) UpdateRoster(ctx context.Context, eventID string, fn domain.RosterFunc) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, err := f.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	snapshot := make([]*domain.Participant, 0, len(f.byEvent[eventID]))
	for _, p := range f.byEvent[eventID] {
		cp := *p
		snapshot = append(snapshot, &cp)
	}
	p, err := fn(&domain.Roster{Event: event, Participants: snapshot})
	if err != nil {
		return nil, err
	}
	if f.saveErr != nil {
		return nil, domain.NewStorageError("save participant", f.saveErr)
	}
	stored := *p
	if stored.ID == "" {
		f.nextID++
		stored.ID = fmt.Sprintf("p-%d", f.nextID)
		f.byEvent[eventID] = append(f.byEvent[eventID], &stored)
	} else {
		for i, existing := range f.byEvent[eventID] {
			if existing.ID == stored.ID {
				f.byEvent[eventID][i] = &stored
			}
		}
	}
	out := stored
	return &out, nil
}

func (f *fakeParticipantRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Participant(nil), f.byEvent[eventID]...), nil
}

func (f *fakeParticipantRepo) ListByEventWithUsers(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ParticipantWithUser
	for _, p := range f.byEvent[eventID] {
		out = append(out, &domain.ParticipantWithUser{Participant: p, User: f.users[p.UserID]})
	}
	return out, nil
}

// fakeGroupRepo is an in-memory GroupRepository; Create also records the ADMIN membership.
type fakeGroupRepo struct {
	byID        map[string]*domain.Group
	memberships *fakeMembershipRepo
	createErr   error
}

func newFakeGroupRepo(m *fakeMembershipRepo) *fakeGroupRepo {
	return &fakeGroupRepo{byID: make(map[string]*domain.Group), memberships: m}
}

func (f *fakeGroupRepo) Create(ctx context.Context, g *domain.Group, creatorID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[g.ID] = g
	f.memberships.add(g.ID, creatorID, domain.RoleAdmin)
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, domain.ErrNotFound
}

// fakeMembershipRepo stores (group, user) -> role.
type fakeMembershipRepo struct {
	roles map[[2]string]domain.MemberRole
	err   error
	calls int
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{roles: make(map[[2]string]domain.MemberRole)}
}

func (f *fakeMembershipRepo) add(groupID, userID string, role domain.MemberRole) {
	f.roles[[2]string{groupID, userID}] = role
}

func (f *fakeMembershipRepo) CountByRole(ctx context.Context, groupID, userID string, role domain.MemberRole) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if r, ok := f.roles[[2]string{groupID, userID}]; ok && r == role {
		return 1, nil
	}
	return 0, nil
}

func (f *fakeMembershipRepo) CountMembers(ctx context.Context, groupID string) (int, error) {
	n := 0
	for k := range f.roles {
		if k[0] == groupID {
			n++
		}
	}
	return n, nil
}

// fakeFollowRepo stores follows as a set of (group, user).
type fakeFollowRepo struct {
	set map[[2]string]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{set: make(map[[2]string]bool)}
}

func (f *fakeFollowRepo) Toggle(ctx context.Context, groupID, userID string) (bool, error) {
	k := [2]string{groupID, userID}
	if f.set[k] {
		delete(f.set, k)
		return false, nil
	}
	f.set[k] = true
	return true, nil
}

func (f *fakeFollowRepo) IsFollowing(ctx context.Context, groupID, userID string) (bool, error) {
	return f.set[[2]string{groupID, userID}], nil
}

func (f *fakeFollowRepo) CountFollowers(ctx context.Context, groupID string) (int, error) {
	n := 0
	for k := range f.set {
		if k[0] == groupID {
			n++
		}
	}
	return n, nil
}

// fakeInvalidator records every invalidated view.
type fakeInvalidator struct {
	mu    sync.Mutex
	views []domain.View
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, views ...domain.View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, views...)
}

func (f *fakeInvalidator) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	getErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// fakeLoginCodeRepo keeps the live code hash and failed attempts per email.
type fakeLoginCodeRepo struct {
	codes    map[string]string
	attempts map[string]int
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{codes: make(map[string]string), attempts: make(map[string]int)}
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.codes[email] = codeHash
	f.attempts[email] = 0
	return nil
}

func (f *fakeLoginCodeRepo) Consume(ctx context.Context, email, codeHash string, maxAttempts int) (bool, error) {
	stored, ok := f.codes[email]
	if !ok {
		return false, nil
	}
	if stored == codeHash {
		delete(f.codes, email)
		return true, nil
	}
	f.attempts[email]++
	if f.attempts[email] >= maxAttempts {
		delete(f.codes, email)
	}
	return false, nil
}

// fakePasswordHasher prefixes the password instead of hashing it.
type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) { return "hash-" + password, nil }

func (fakePasswordHasher) Compare(hash, password string) error {
	if hash != "hash-"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(identity *domain.Identity, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + identity.ID, nil
}

// fakeEmailService captures sent emails.
type fakeEmailService struct {
	welcome    []*domain.WelcomeMessageEmailData
	loginCodes []*domain.LoginCodeEmailData
	err        error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	f.loginCodes = append(f.loginCodes, data)
	return f.err
}

// fakeIdentityProvider returns a fixed profile for the code "good".
type fakeIdentityProvider struct {
	profile *domain.ExternalProfile
}

func (f *fakeIdentityProvider) Name() string { return "fake" }

func (f *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + state
}

func (f *fakeIdentityProvider) Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error) {
	if code != "good" {
		return nil, fmt.Errorf("bad code")
	}
	return f.profile, nil
}
