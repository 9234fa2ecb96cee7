package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courtshare/internal/domain"
)

type participationService struct {
	participants   domain.ParticipantRepository
	invalidator    domain.ViewInvalidator
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewParticipationService returns the join/cancel service. Each call is one atomic roster update.
func NewParticipationService(participants domain.ParticipantRepository, invalidator domain.ViewInvalidator, logger *slog.Logger, timeout time.Duration) domain.ParticipationService {
	return &participationService{
		participants:   participants,
		invalidator:    invalidator,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *participationService) Join(ctx context.Context, eventID string, requester *domain.Identity) (*domain.Participant, error) {
	return s.transition(ctx, "join", eventID, requester, func(r *domain.Roster) (*domain.Participant, error) {
		return r.Join(requester.ID, s.now())
	})
}

func (s *participationService) Cancel(ctx context.Context, eventID string, requester *domain.Identity) (*domain.Participant, error) {
	return s.transition(ctx, "cancel", eventID, requester, func(r *domain.Roster) (*domain.Participant, error) {
		return r.Cancel(requester.ID, s.now())
	})
}

func (s *participationService) transition(ctx context.Context, action, eventID string, requester *domain.Identity, fn domain.RosterFunc) (*domain.Participant, error) {
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var groupID string
	p, err := s.participants.UpdateRoster(ctx, eventID, func(r *domain.Roster) (*domain.Participant, error) {
		groupID = r.Event.GroupID
		return fn(r)
	})
	if err != nil {
		return nil, fmt.Errorf("%s event: %w", action, err)
	}

	s.invalidator.Invalidate(ctx, domain.EventView(eventID), domain.GroupView(groupID), domain.ListingView())
	s.logger.InfoContext(ctx, "participation changed", "action", action, "event_id", eventID, "user_id", requester.ID, "status", p.Status)
	return p, nil
}
