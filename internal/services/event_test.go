package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtshare/internal/domain"
)

type eventFixture struct {
	svc          domain.EventService
	events       *fakeEventRepo
	participants *fakeParticipantRepo
	groups       *fakeGroupRepo
	memberships  *fakeMembershipRepo
	invalidator  *fakeInvalidator
	now          time.Time
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{
		events:      newFakeEventRepo(),
		memberships: newFakeMembershipRepo(),
		invalidator: &fakeInvalidator{},
		now:         time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	f.participants = newFakeParticipantRepo(f.events)
	f.groups = newFakeGroupRepo(f.memberships)
	f.groups.byID["g-1"] = &domain.Group{ID: "g-1", Name: "Smash Club"}
	f.memberships.add("g-1", "admin", domain.RoleAdmin)
	f.memberships.add("g-1", "member", domain.RoleMember)

	svc := NewEventService(EventDeps{
		Events:       f.events,
		Participants: f.participants,
		Groups:       f.groups,
		Authorizer:   NewGroupAuthorizer(f.memberships),
		Invalidator:  f.invalidator,
		Logger:       discardLogger(),
		Location:     time.UTC,
		Timeout:      time.Second,
	}).(*eventService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func validEventInput() domain.CreateEventInput {
	return domain.CreateEventInput{
		GroupID:         "g-1",
		Title:           "Friday doubles",
		Date:            "2025-03-07",
		StartTime:       "18:00",
		EndTime:         "20:00",
		LocationText:    "Central Court 3",
		CourtCost:       800,
		ShuttleCost:     200,
		MaxParticipants: 10,
		SkillLevels:     []domain.SkillLevel{domain.SkillIntermediate},
	}
}

func intPtr(i int) *int { return &i }

func TestEventService_CreateEvent(t *testing.T) {
	admin := &domain.Identity{ID: "admin", Name: "Admin"}
	ctx := context.Background()

	t.Run("success computes price and persists", func(t *testing.T) {
		f := newEventFixture(t)
		in := validEventInput()
		in.OtherCost = intPtr(0)
		in.MapURL = "https://maps.example/court"
		in.ImageURLs = []string{"https://img.example/1.jpg"}

		ev, err := f.svc.CreateEvent(ctx, in, admin)
		require.NoError(t, err)
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, 100, ev.PricePerPerson)
		assert.Equal(t, "admin", ev.CreatedByID)
		assert.Equal(t, "g-1", ev.GroupID)
		assert.Equal(t, time.Date(2025, 3, 7, 18, 0, 0, 0, time.UTC), ev.StartAt)
		assert.Equal(t, time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC), ev.EndAt)
		require.NotNil(t, ev.MapURL)
		assert.Equal(t, "https://maps.example/court", *ev.MapURL)
		assert.Nil(t, ev.Notes)
		assert.Equal(t, []domain.SkillLevel{domain.SkillIntermediate}, ev.SkillLevels)
		assert.Contains(t, f.events.byID, ev.ID)
		assert.ElementsMatch(t, []domain.View{
			domain.ListingView(), domain.GroupView("g-1"), domain.EventView(ev.ID),
		}, f.invalidator.views)
	})

	t.Run("price rounds up and other cost defaults to zero", func(t *testing.T) {
		f := newEventFixture(t)
		in := validEventInput()
		in.CourtCost, in.ShuttleCost, in.MaxParticipants = 500, 101, 6
		ev, err := f.svc.CreateEvent(ctx, in, admin)
		require.NoError(t, err)
		assert.Equal(t, 0, ev.OtherCost)
		assert.Equal(t, 101, ev.PricePerPerson)
		assert.Equal(t, []string{}, ev.ImageURLs)
	})

	t.Run("markup is stripped from free text", func(t *testing.T) {
		f := newEventFixture(t)
		in := validEventInput()
		in.Title = "<b>Night</b> & day"
		in.Notes = "<script>alert(1)</script>bring water"
		ev, err := f.svc.CreateEvent(ctx, in, admin)
		require.NoError(t, err)
		assert.Equal(t, "Night & day", ev.Title)
		require.NotNil(t, ev.Notes)
		assert.Equal(t, "bring water", *ev.Notes)
	})

	t.Run("anonymous requester", func(t *testing.T) {
		f := newEventFixture(t)
		_, err := f.svc.CreateEvent(ctx, validEventInput(), nil)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.Empty(t, f.events.byID)
	})

	t.Run("storage failure is surfaced", func(t *testing.T) {
		f := newEventFixture(t)
		f.events.createErr = domain.NewStorageError("insert event", errors.New("connection reset"))
		_, err := f.svc.CreateEvent(ctx, validEventInput(), admin)
		var serr *domain.StorageError
		require.ErrorAs(t, err, &serr)
		assert.Empty(t, f.invalidator.views)
	})
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	admin := &domain.Identity{ID: "admin"}

	tests := []struct {
		name      string
		mutate    func(*domain.CreateEventInput)
		wantField string
	}{
		{"end before start", func(in *domain.CreateEventInput) { in.StartTime, in.EndTime = "10:00", "09:00" }, "end_time"},
		{"end equals start", func(in *domain.CreateEventInput) { in.StartTime, in.EndTime = "10:00", "10:00" }, "end_time"},
		{"empty skill levels", func(in *domain.CreateEventInput) { in.SkillLevels = nil }, "skill_levels"},
		{"unknown skill level", func(in *domain.CreateEventInput) { in.SkillLevels = []domain.SkillLevel{"PRO"} }, "skill_levels"},
		{"six images", func(in *domain.CreateEventInput) {
			for i := 0; i < domain.MaxEventImages+1; i++ {
				in.ImageURLs = append(in.ImageURLs, "https://img.example/x.jpg")
			}
		}, "image_urls"},
		{"malformed image url", func(in *domain.CreateEventInput) { in.ImageURLs = []string{"not a url"} }, "image_urls"},
		{"negative court cost", func(in *domain.CreateEventInput) { in.CourtCost = -1 }, "court_cost"},
		{"negative shuttle cost", func(in *domain.CreateEventInput) { in.ShuttleCost = -50 }, "shuttle_cost"},
		{"negative other cost", func(in *domain.CreateEventInput) { in.OtherCost = intPtr(-5) }, "other_cost"},
		{"short title", func(in *domain.CreateEventInput) { in.Title = "ab" }, "title"},
		{"short location", func(in *domain.CreateEventInput) { in.LocationText = "x" }, "location_text"},
		{"bad map url", func(in *domain.CreateEventInput) { in.MapURL = "maps" }, "map_url"},
		{"capacity below two", func(in *domain.CreateEventInput) { in.MaxParticipants = 1 }, "max_participants"},
		{"missing date", func(in *domain.CreateEventInput) { in.Date = "" }, "date"},
		{"malformed time", func(in *domain.CreateEventInput) { in.StartTime = "6pm" }, "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture(t)
			in := validEventInput()
			tt.mutate(&in)

			_, err := f.svc.CreateEvent(context.Background(), in, admin)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.NotEmpty(t, verr.Message)
			assert.Empty(t, f.events.byID)
			assert.Empty(t, f.invalidator.views)
		})
	}
}

func TestEventService_CreateEvent_Forbidden(t *testing.T) {
	tests := []struct {
		name      string
		requester *domain.Identity
		input     func() domain.CreateEventInput
	}{
		{"plain member", &domain.Identity{ID: "member"}, validEventInput},
		{"stranger", &domain.Identity{ID: "stranger"}, validEventInput},
		{"admin of another group", &domain.Identity{ID: "admin"}, func() domain.CreateEventInput {
			in := validEventInput()
			in.GroupID = "g-2"
			return in
		}},
		{"member with invalid input", &domain.Identity{ID: "member"}, func() domain.CreateEventInput {
			in := validEventInput()
			in.SkillLevels = nil
			in.CourtCost = -1
			return in
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventFixture(t)
			_, err := f.svc.CreateEvent(context.Background(), tt.input(), tt.requester)
			require.ErrorIs(t, err, domain.ErrForbidden)
			assert.Empty(t, f.events.byID)
		})
	}
}

func seedEvent(f *eventFixture, id string, maxParticipants int, overbook bool) *domain.Event {
	ev := &domain.Event{
		ID:              id,
		GroupID:         "g-1",
		Title:           "Session " + id,
		StartAt:         f.now.Add(24 * time.Hour),
		EndAt:           f.now.Add(26 * time.Hour),
		MaxParticipants: maxParticipants,
		AllowOverbook:   overbook,
	}
	f.events.byID[id] = ev
	return ev
}

func seedParticipant(f *eventFixture, eventID, userID, name string, status domain.ParticipantStatus) {
	p := &domain.Participant{
		ID:      "seed-" + userID,
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	f.participants.byEvent[eventID] = append(f.participants.byEvent[eventID], p)
	if name != "" {
		f.participants.users[userID] = &domain.User{ID: userID, Name: name, Email: userID + "@example.com"}
	}
}

func TestEventService_GetAdminSummary(t *testing.T) {
	ctx := context.Background()

	f := newEventFixture(t)
	seedEvent(f, "ev-1", 10, false)
	seedParticipant(f, "ev-1", "u1", "Ploy", domain.ParticipantJoined)
	seedParticipant(f, "ev-1", "u2", "Ton", domain.ParticipantCancelled)
	seedParticipant(f, "ev-1", "u3", "", domain.ParticipantJoined)

	t.Run("admin sees joined participants only", func(t *testing.T) {
		summary, err := f.svc.GetAdminSummary(ctx, "ev-1", &domain.Identity{ID: "admin"})
		require.NoError(t, err)
		assert.Equal(t, "ev-1", summary.EventID)
		assert.Equal(t, 2, summary.Count)
		require.Len(t, summary.Participants, 2)
		assert.Equal(t, &domain.AttendeeSummary{
			ParticipantID: "seed-u1", Name: "Ploy", Email: "u1@example.com", Status: domain.ParticipantJoined,
		}, summary.Participants[0])
		assert.Equal(t, unnamedUser, summary.Participants[1].Name)
		assert.Equal(t, "", summary.Participants[1].Email)
		for _, p := range summary.Participants {
			assert.Equal(t, domain.ParticipantJoined, p.Status)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		_, err := f.svc.GetAdminSummary(ctx, "ev-1", &domain.Identity{ID: "member"})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.GetAdminSummary(ctx, "ev-1", nil)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.svc.GetAdminSummary(ctx, "nope", &domain.Identity{ID: "admin"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("membership lookup failure", func(t *testing.T) {
		f.memberships.err = errors.New("db down")
		defer func() { f.memberships.err = nil }()
		_, err := f.svc.GetAdminSummary(ctx, "ev-1", &domain.Identity{ID: "admin"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestEventService_GetEventDetail(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t)
	seedEvent(f, "ev-1", 4, false)
	seedParticipant(f, "ev-1", "member", "Mint", domain.ParticipantJoined)
	seedParticipant(f, "ev-1", "u2", "Ton", domain.ParticipantCancelled)

	detail, err := f.svc.GetEventDetail(ctx, "ev-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.JoinedCount)
	assert.Equal(t, "Smash Club", detail.Group.Name)
	assert.False(t, detail.IsJoined)
	assert.False(t, detail.IsAdmin)

	detail, err = f.svc.GetEventDetail(ctx, "ev-1", &domain.Identity{ID: "member"})
	require.NoError(t, err)
	assert.True(t, detail.IsJoined)
	assert.False(t, detail.IsAdmin)

	detail, err = f.svc.GetEventDetail(ctx, "ev-1", &domain.Identity{ID: "u2"})
	require.NoError(t, err)
	assert.False(t, detail.IsJoined)

	detail, err = f.svc.GetEventDetail(ctx, "ev-1", &domain.Identity{ID: "admin"})
	require.NoError(t, err)
	assert.True(t, detail.IsAdmin)

	_, err = f.svc.GetEventDetail(ctx, "missing", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Listings(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t)
	for i, offset := range []time.Duration{-72, -48, -24, 24, 48, 72} {
		ev := seedEvent(f, string(rune('a'+i)), 10, false)
		ev.StartAt = f.now.Add(offset * time.Hour)
		ev.EndAt = ev.StartAt.Add(2 * time.Hour)
	}

	upcoming, total, err := f.svc.ListUpcoming(ctx, nil, false, domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "d", upcoming[0].Event.ID)
	assert.Equal(t, "e", upcoming[1].Event.ID)

	past, err := f.svc.ListPast(ctx, 0)
	require.NoError(t, err)
	require.Len(t, past, 3)
	assert.Equal(t, "c", past[0].Event.ID)
	assert.Equal(t, "a", past[2].Event.ID)

	past, err = f.svc.ListPast(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, past, 1)
}
