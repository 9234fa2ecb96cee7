package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtshare/internal/domain"
)

const (
	defaultPastSize = 4
	unnamedUser     = "ไม่ระบุชื่อ"
)

// EventDeps wires the collaborators of the event service.
type EventDeps struct {
	Events       domain.EventRepository
	Participants domain.ParticipantRepository
	Groups       domain.GroupRepository
	Authorizer   domain.GroupAuthorizer
	Invalidator  domain.ViewInvalidator
	Logger       *slog.Logger
	Location     *time.Location
	Timeout      time.Duration
}

type eventService struct {
	events         domain.EventRepository
	participants   domain.ParticipantRepository
	groups         domain.GroupRepository
	authorizer     domain.GroupAuthorizer
	invalidator    domain.ViewInvalidator
	validator      *inputValidator
	logger         *slog.Logger
	loc            *time.Location
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns the event lifecycle manager.
func NewEventService(deps EventDeps) domain.EventService {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	return &eventService{
		events:         deps.Events,
		participants:   deps.Participants,
		groups:         deps.Groups,
		authorizer:     deps.Authorizer,
		invalidator:    deps.Invalidator,
		validator:      newInputValidator(),
		logger:         deps.Logger,
		loc:            loc,
		contextTimeout: deps.Timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input domain.CreateEventInput, requester *domain.Identity) (*domain.Event, error) {
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	admin, err := s.authorizer.IsGroupAdmin(ctx, requester.ID, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if !admin {
		return nil, domain.ErrForbidden
	}

	input.Title = sanitizeText(input.Title)
	input.LocationText = sanitizeText(input.LocationText)
	input.Notes = sanitizeText(input.Notes)
	if err := s.validator.check(input); err != nil {
		return nil, err
	}
	startAt, endAt, err := s.eventWindow(input)
	if err != nil {
		return nil, err
	}

	otherCost := 0
	if input.OtherCost != nil {
		otherCost = *input.OtherCost
	}
	price, err := PricePerPerson(input.CourtCost, input.ShuttleCost, otherCost, input.MaxParticipants)
	if err != nil {
		return nil, domain.NewValidationError("max_participants", err.Error())
	}

	now := s.now()
	event := &domain.Event{
		ID:              uuid.NewString(),
		GroupID:         input.GroupID,
		CreatedByID:     requester.ID,
		Title:           input.Title,
		StartAt:         startAt,
		EndAt:           endAt,
		LocationText:    input.LocationText,
		MapURL:          optionalString(input.MapURL),
		CourtCost:       input.CourtCost,
		ShuttleCost:     input.ShuttleCost,
		OtherCost:       otherCost,
		PricePerPerson:  price,
		MaxParticipants: input.MaxParticipants,
		AllowOverbook:   input.AllowOverbook,
		SkillLevels:     input.SkillLevels,
		Notes:           optionalString(input.Notes),
		ImageURLs:       input.ImageURLs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if event.ImageURLs == nil {
		event.ImageURLs = []string{}
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.invalidator.Invalidate(ctx, domain.ListingView(), domain.GroupView(event.GroupID), domain.EventView(event.ID))
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "group_id", event.GroupID, "user_id", requester.ID)
	return event, nil
}

// eventWindow combines the calendar date with both times of day and requires end after start.
func (s *eventService) eventWindow(input domain.CreateEventInput) (time.Time, time.Time, error) {
	const layout = "2006-01-02 15:04"
	startAt, err := time.ParseInLocation(layout, input.Date+" "+input.StartTime, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("start_time", "start_time is not a valid time")
	}
	endAt, err := time.ParseInLocation(layout, input.Date+" "+input.EndTime, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("end_time", "end_time is not a valid time")
	}
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, domain.NewValidationError("end_time", "end time must be after start time")
	}
	return startAt, endAt, nil
}

func (s *eventService) GetAdminSummary(ctx context.Context, eventID string, requester *domain.Identity) (*domain.AdminSummary, error) {
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	admin, err := s.authorizer.IsGroupAdmin(ctx, requester.ID, event.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get admin summary: %w", err)
	}
	if !admin {
		return nil, domain.ErrForbidden
	}

	rows, err := s.participants.ListByEventWithUsers(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	summary := &domain.AdminSummary{EventID: event.ID, Participants: []*domain.AttendeeSummary{}}
	for _, row := range rows {
		if row.Participant.Status != domain.ParticipantJoined {
			continue
		}
		a := &domain.AttendeeSummary{
			ParticipantID: row.Participant.ID,
			Name:          unnamedUser,
			Status:        row.Participant.Status,
		}
		if row.User != nil {
			if row.User.Name != "" {
				a.Name = row.User.Name
			}
			a.Email = row.User.Email
		}
		summary.Participants = append(summary.Participants, a)
	}
	summary.Count = len(summary.Participants)
	return summary, nil
}

func (s *eventService) GetEventDetail(ctx context.Context, eventID string, requester *domain.Identity) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	group, err := s.groups.GetByID(ctx, event.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	participants, err := s.participants.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	roster := &domain.Roster{Event: event, Participants: participants}
	detail := &domain.EventDetail{Event: event, Group: group, JoinedCount: roster.JoinedCount()}
	if requester != nil {
		if p := roster.Find(requester.ID); p != nil {
			detail.IsJoined = p.Status == domain.ParticipantJoined
		}
		detail.IsAdmin, err = s.authorizer.IsGroupAdmin(ctx, requester.ID, event.GroupID)
		if err != nil {
			return nil, fmt.Errorf("get event detail: %w", err)
		}
	}
	return detail, nil
}

func (s *eventService) ListUpcoming(ctx context.Context, requester *domain.Identity, onlyFollowed bool, page domain.PaginationParams) ([]*domain.EventListItem, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter := domain.EventListFilter{Now: s.now(), Pagination: page.Normalize()}
	if onlyFollowed && requester != nil {
		filter.FollowedByUserID = requester.ID
	}
	items, total, err := s.events.ListUpcoming(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list upcoming events: %w", err)
	}
	return items, total, nil
}

func (s *eventService) ListPast(ctx context.Context, limit int) ([]*domain.EventListItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultPastSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	items, err := s.events.ListPast(ctx, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list past events: %w", err)
	}
	return items, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
