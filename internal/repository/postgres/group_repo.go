package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courtshare/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

// NewGroupRepository returns a domain.GroupRepository implemented with Postgres.
func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{DB: db}
}

// Create inserts the group and the creator's ADMIN membership in one transaction.
func (r *groupRepository) Create(ctx context.Context, g *domain.Group, creatorID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin tx", err)
	}
	defer tx.Rollback()

	groupQuery := `
		INSERT INTO groups (id, name, description, cover_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, groupQuery, g.ID, g.Name, g.Description, g.CoverImageURL, g.CreatedAt, g.UpdatedAt); err != nil {
		return domain.NewStorageError("insert group", err)
	}
	memberQuery := `
		INSERT INTO group_members (group_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, memberQuery, g.ID, creatorID, domain.RoleAdmin, g.CreatedAt); err != nil {
		return domain.NewStorageError("insert group admin", err)
	}
	return domain.NewStorageError("commit group", tx.Commit())
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, name, description, cover_image_url, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	g := &domain.Group{}
	var cover sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Description, &cover, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("select group", err)
	}
	if cover.Valid {
		g.CoverImageURL = &cover.String
	}
	return g, nil
}
