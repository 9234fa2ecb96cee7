package postgres

import (
	"context"
	"database/sql"

	"courtshare/internal/domain"
)

type followRepository struct {
	DB *sql.DB
}

// NewFollowRepository returns a domain.FollowRepository implemented with Postgres.
func NewFollowRepository(db *sql.DB) domain.FollowRepository {
	return &followRepository{DB: db}
}

func (r *followRepository) Toggle(ctx context.Context, groupID, userID string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.NewStorageError("begin tx", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM group_follows WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return false, domain.NewStorageError("delete follow", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("delete follow", err)
	}
	following := removed == 0
	if following {
		query := `
			INSERT INTO group_follows (group_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, group_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, groupID, userID); err != nil {
			return false, domain.NewStorageError("insert follow", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, domain.NewStorageError("commit follow", err)
	}
	return following, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, groupID, userID string) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM group_follows WHERE group_id = $1 AND user_id = $2)`
	if err := r.DB.QueryRowContext(ctx, query, groupID, userID).Scan(&ok); err != nil {
		return false, domain.NewStorageError("check follow", err)
	}
	return ok, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, groupID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_follows WHERE group_id = $1`, groupID).Scan(&n); err != nil {
		return 0, domain.NewStorageError("count followers", err)
	}
	return n, nil
}
