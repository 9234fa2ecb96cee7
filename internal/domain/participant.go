package domain

import (
	"context"
	"time"
)

// ParticipantStatus is the attendance state of a participant record.
type ParticipantStatus string

const (
	ParticipantJoined    ParticipantStatus = "JOINED"
	ParticipantCancelled ParticipantStatus = "CANCELLED"
)

// Participant links one user to one event. (EventID, UserID) is unique; a cancelled record is
// reactivated on rejoin rather than duplicated, and records are never deleted.
// swagger:model Participant
type Participant struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	UserID    string            `json:"user_id"`
	Status    ParticipantStatus `json:"status"`
	JoinedAt  time.Time         `json:"joined_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ParticipantWithUser bundles a participant with the user it belongs to.
type ParticipantWithUser struct {
	Participant *Participant
	User        *User
}

// RosterFunc mutates a roster and returns the participant record it touched.
type RosterFunc func(roster *Roster) (*Participant, error)

// ParticipantRepository defines participant storage.
//
// UpdateRoster loads the event and its participants, applies fn, and persists the returned
// participant: inserted when its ID is empty, updated otherwise. Implementations run
// the whole sequence atomically with respect to other UpdateRoster calls on the same event.
type ParticipantRepository interface {
	UpdateRoster(ctx context.Context, eventID string, fn RosterFunc) (*Participant, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Participant, error)
	ListByEventWithUsers(ctx context.Context, eventID string) ([]*ParticipantWithUser, error)
}

// ParticipationService joins and cancels attendance.
type ParticipationService interface {
	Join(ctx context.Context, eventID string, requester *Identity) (*Participant, error)
	Cancel(ctx context.Context, eventID string, requester *Identity) (*Participant, error)
}
