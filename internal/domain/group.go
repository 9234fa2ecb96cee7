package domain

import (
	"context"
	"time"
)

// MemberRole is a user's role inside a group.
type MemberRole string

const (
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

// Group is a community that owns events.
// swagger:model Group
type Group struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CoverImageURL *string   `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GroupMember is a user's membership in a group.
type GroupMember struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group_id"`
	UserID    string     `json:"user_id"`
	Role      MemberRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateGroupInput is the payload for group creation.
type CreateGroupInput struct {
	Name          string `json:"name" validate:"min=3"`
	Description   string `json:"description" validate:"min=10"`
	CoverImageURL string `json:"cover_image_url" validate:"omitempty,url"`
}

// GroupDetail is the public view of a group.
type GroupDetail struct {
	Group          *Group           `json:"group"`
	FollowerCount  int              `json:"follower_count"`
	MemberCount    int              `json:"member_count"`
	IsFollowing    bool             `json:"is_following"`
	IsAdmin        bool             `json:"is_admin"`
	UpcomingEvents []*EventListItem `json:"upcoming_events"`
}

// GroupRepository defines group storage. Create inserts the group and the creator's ADMIN
// membership together.
type GroupRepository interface {
	Create(ctx context.Context, group *Group, creatorID string) error
	GetByID(ctx context.Context, id string) (*Group, error)
}

// MembershipRepository answers membership questions.
type MembershipRepository interface {
	CountByRole(ctx context.Context, groupID, userID string, role MemberRole) (int, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
}

// FollowRepository stores who follows which group.
type FollowRepository interface {
	// Toggle removes the follow when present and creates it otherwise; it reports the new state.
	Toggle(ctx context.Context, groupID, userID string) (following bool, err error)
	IsFollowing(ctx context.Context, groupID, userID string) (bool, error)
	CountFollowers(ctx context.Context, groupID string) (int, error)
}

// GroupAuthorizer decides whether a user administers a group.
// A nil error with false means "not an admin"; an error means the answer is unknown.
type GroupAuthorizer interface {
	IsGroupAdmin(ctx context.Context, userID, groupID string) (bool, error)
}

// GroupService manages groups and follows.
type GroupService interface {
	CreateGroup(ctx context.Context, input CreateGroupInput, requester *Identity) (*Group, error)
	GetGroup(ctx context.Context, groupID string, requester *Identity) (*GroupDetail, error)
	ToggleFollow(ctx context.Context, groupID string, requester *Identity) (bool, error)
}
