package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"courtshare/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

// NewParticipantRepository returns a domain.ParticipantRepository implemented with Postgres.
func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{DB: db}
}

// UpdateRoster locks the event row so concurrent roster updates on one event run one at a time.
// The (event_id, user_id) unique index still rejects a duplicate insert.
func (r *participantRepository) UpdateRoster(ctx context.Context, eventID string, fn domain.RosterFunc) (*domain.Participant, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError("begin tx", err)
	}
	defer tx.Rollback()

	event, err := getEvent(ctx, tx, eventID, true)
	if err != nil {
		return nil, err
	}
	participants, err := listParticipants(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	p, err := fn(&domain.Roster{Event: event, Participants: participants})
	if err != nil {
		return nil, err
	}

	if p.ID == "" {
		query := `
			INSERT INTO event_participants (event_id, user_id, status, joined_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query, p.EventID, p.UserID, p.Status, p.JoinedAt, p.UpdatedAt).Scan(&p.ID)
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyJoined
		}
		if err != nil {
			return nil, domain.NewStorageError("insert participant", err)
		}
	} else {
		query := `
			UPDATE event_participants
			SET status = $1, joined_at = $2, updated_at = $3
			WHERE id = $4
		`
		if _, err := tx.ExecContext(ctx, query, p.Status, p.JoinedAt, p.UpdatedAt, p.ID); err != nil {
			return nil, domain.NewStorageError("update participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.NewStorageError("commit roster", err)
	}
	return p, nil
}

func listParticipants(ctx context.Context, q queryer, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, event_id, user_id, status, joined_at, updated_at
		FROM event_participants
		WHERE event_id = $1
		ORDER BY joined_at ASC
	`
	rows, err := q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, domain.NewStorageError("select participants", err)
	}
	defer rows.Close()

	participants := []*domain.Participant{}
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.JoinedAt, &p.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("scan participant", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("select participants", err)
	}
	return participants, nil
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	return listParticipants(ctx, r.DB, eventID)
}

func (r *participantRepository) ListByEventWithUsers(ctx context.Context, eventID string) ([]*domain.ParticipantWithUser, error) {
	query := `
		SELECT p.id, p.event_id, p.user_id, p.status, p.joined_at, p.updated_at,
			u.id, u.email, u.name, u.created_at, u.updated_at
		FROM event_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, domain.NewStorageError("select participants with users", err)
	}
	defer rows.Close()

	out := []*domain.ParticipantWithUser{}
	for rows.Next() {
		p, u := &domain.Participant{}, &domain.User{}
		if err := rows.Scan(
			&p.ID, &p.EventID, &p.UserID, &p.Status, &p.JoinedAt, &p.UpdatedAt,
			&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, domain.NewStorageError("scan participant", fmt.Errorf("event %s: %w", eventID, err))
		}
		out = append(out, &domain.ParticipantWithUser{Participant: p, User: u})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("select participants with users", err)
	}
	return out, nil
}
