package postgres

import (
	"context"
	"database/sql"

	"courtshare/internal/domain"
)

type membershipRepository struct {
	DB *sql.DB
}

// NewMembershipRepository returns a domain.MembershipRepository implemented with Postgres.
func NewMembershipRepository(db *sql.DB) domain.MembershipRepository {
	return &membershipRepository{DB: db}
}

func (r *membershipRepository) CountByRole(ctx context.Context, groupID, userID string, role domain.MemberRole) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM group_members
		WHERE group_id = $1 AND user_id = $2 AND role = $3
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, groupID, userID, role).Scan(&n); err != nil {
		return 0, domain.NewStorageError("count memberships", err)
	}
	return n, nil
}

func (r *membershipRepository) CountMembers(ctx context.Context, groupID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID).Scan(&n); err != nil {
		return 0, domain.NewStorageError("count members", err)
	}
	return n, nil
}
