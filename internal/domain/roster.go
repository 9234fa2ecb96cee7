package domain

import "time"

// Roster is a snapshot of one event and every participant record it has, in any status.
// Join and Cancel implement the per-user participation state machine:
//
//	ABSENT -> JOINED -> CANCELLED -> JOINED -> ...
//
// There is no terminal state.
type Roster struct {
	Event        *Event
	Participants []*Participant
}

// JoinedCount counts participants in status JOINED.
func (r *Roster) JoinedCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Status == ParticipantJoined {
			n++
		}
	}
	return n
}

// Find returns the record for userID, or nil when the user has none.
func (r *Roster) Find(userID string) *Participant {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// IsFull reports whether a new participant would be refused. Overbookable events are never full.
func (r *Roster) IsFull() bool {
	return !r.Event.AllowOverbook && r.JoinedCount() >= r.Event.MaxParticipants
}

// Join admits userID. Capacity is checked against the JOINED count before admission, so a
// non-overbookable event reaches exactly MaxParticipants and never more. A cancelled record is
// reactivated with a fresh JoinedAt; otherwise a new record with an empty ID is appended.
func (r *Roster) Join(userID string, now time.Time) (*Participant, error) {
	existing := r.Find(userID)
	if existing != nil && existing.Status == ParticipantJoined {
		return nil, ErrAlreadyJoined
	}
	if r.IsFull() {
		return nil, ErrEventFull
	}
	if existing != nil {
		existing.Status = ParticipantJoined
		existing.JoinedAt = now
		existing.UpdatedAt = now
		return existing, nil
	}
	p := &Participant{
		EventID:   r.Event.ID,
		UserID:    userID,
		Status:    ParticipantJoined,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	r.Participants = append(r.Participants, p)
	return p, nil
}

// Cancel moves userID's record to CANCELLED. JoinedAt is kept.
func (r *Roster) Cancel(userID string, now time.Time) (*Participant, error) {
	existing := r.Find(userID)
	if existing == nil || existing.Status != ParticipantJoined {
		return nil, ErrNotJoined
	}
	existing.Status = ParticipantCancelled
	existing.UpdatedAt = now
	return existing, nil
}
