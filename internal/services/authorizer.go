package services

import (
	"context"
	"fmt"

	"courtshare/internal/domain"
)

type groupAuthorizer struct {
	memberships domain.MembershipRepository
}

// NewGroupAuthorizer returns a GroupAuthorizer backed by membership storage.
// Every call queries storage; nothing is cached.
func NewGroupAuthorizer(memberships domain.MembershipRepository) domain.GroupAuthorizer {
	return &groupAuthorizer{memberships: memberships}
}

// IsGroupAdmin reports whether userID holds an ADMIN membership in groupID.
// A missing group or membership is simply false.
func (a *groupAuthorizer) IsGroupAdmin(ctx context.Context, userID, groupID string) (bool, error) {
	if userID == "" || groupID == "" {
		return false, nil
	}
	n, err := a.memberships.CountByRole(ctx, groupID, userID, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("check group admin: %w", err)
	}
	return n > 0, nil
}
