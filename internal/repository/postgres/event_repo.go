package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/lib/pq"

	"courtshare/internal/domain"
)

const eventColumns = `e.id, e.group_id, e.created_by_id, e.title, e.start_at, e.end_at, e.location_text, e.map_url,
	e.court_cost, e.shuttle_cost, e.other_cost, e.price_per_person, e.max_participants, e.allow_overbook,
	e.skill_levels, e.notes, e.image_urls, e.created_at, e.updated_at`

const listColumns = eventColumns + `, g.name,
	(SELECT COUNT(*) FROM event_participants p WHERE p.event_id = e.id AND p.status = 'JOINED')`

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, group_id, created_by_id, title, start_at, end_at, location_text, map_url,
			court_cost, shuttle_cost, other_cost, price_per_person, max_participants, allow_overbook,
			skill_levels, notes, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	levels := make([]string, len(e.SkillLevels))
	for i, l := range e.SkillLevels {
		levels[i] = string(l)
	}
	images := e.ImageURLs
	if images == nil {
		images = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.GroupID, e.CreatedByID, e.Title, e.StartAt, e.EndAt, e.LocationText, e.MapURL,
		e.CourtCost, e.ShuttleCost, e.OtherCost, e.PricePerPerson, e.MaxParticipants, e.AllowOverbook,
		pq.Array(levels), e.Notes, pq.Array(images), e.CreatedAt, e.UpdatedAt,
	)
	return domain.NewStorageError("insert event", err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return getEvent(ctx, r.DB, id, false)
}

// getEvent loads one event; forUpdate locks its row until the surrounding transaction ends.
func getEvent(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("select event", err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, extra ...any) (*domain.Event, error) {
	e := &domain.Event{}
	var mapURL, notes sql.NullString
	var levels, images []string
	dest := []any{
		&e.ID, &e.GroupID, &e.CreatedByID, &e.Title, &e.StartAt, &e.EndAt, &e.LocationText, &mapURL,
		&e.CourtCost, &e.ShuttleCost, &e.OtherCost, &e.PricePerPerson, &e.MaxParticipants, &e.AllowOverbook,
		pq.Array(&levels), &notes, pq.Array(&images), &e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if mapURL.Valid {
		e.MapURL = &mapURL.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	e.SkillLevels = make([]domain.SkillLevel, len(levels))
	for i, l := range levels {
		e.SkillLevels[i] = domain.SkillLevel(l)
	}
	if images == nil {
		images = []string{}
	}
	e.ImageURLs = images
	return e, nil
}

func (r *eventRepository) listItems(ctx context.Context, op, query string, args ...any) ([]*domain.EventListItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	items := []*domain.EventListItem{}
	for rows.Next() {
		item := &domain.EventListItem{}
		item.Event, err = scanEvent(rows, &item.GroupName, &item.JoinedCount)
		if err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return items, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, filter domain.EventListFilter) ([]*domain.EventListItem, int, error) {
	where := ` WHERE e.end_at >= $1`
	args := []any{filter.Now}
	if filter.FollowedByUserID != "" {
		args = append(args, filter.FollowedByUserID)
		where += ` AND e.group_id IN (SELECT f.group_id FROM group_follows f WHERE f.user_id = $2)`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events e` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, domain.NewStorageError("count upcoming events", err)
	}

	n := len(args)
	query := `SELECT ` + listColumns + ` FROM events e JOIN groups g ON g.id = e.group_id` + where +
		` ORDER BY e.start_at ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())
	items, err := r.listItems(ctx, "list upcoming events", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *eventRepository) ListPast(ctx context.Context, now time.Time, limit int) ([]*domain.EventListItem, error) {
	query := `SELECT ` + listColumns + `
		FROM events e JOIN groups g ON g.id = e.group_id
		WHERE e.end_at < $1
		ORDER BY e.start_at DESC
		LIMIT $2`
	return r.listItems(ctx, "list past events", query, now, limit)
}

func (r *eventRepository) ListUpcomingByGroup(ctx context.Context, groupID string, now time.Time) ([]*domain.EventListItem, error) {
	query := `SELECT ` + listColumns + `
		FROM events e JOIN groups g ON g.id = e.group_id
		WHERE e.group_id = $1 AND e.end_at >= $2
		ORDER BY e.start_at ASC`
	return r.listItems(ctx, "list group events", query, groupID, now)
}
