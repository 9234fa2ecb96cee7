package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtshare/internal/domain"
)

// GroupDeps wires the collaborators of the group service.
type GroupDeps struct {
	Groups      domain.GroupRepository
	Memberships domain.MembershipRepository
	Follows     domain.FollowRepository
	Events      domain.EventRepository
	Authorizer  domain.GroupAuthorizer
	Invalidator domain.ViewInvalidator
	Logger      *slog.Logger
	Timeout     time.Duration
}

type groupService struct {
	groups         domain.GroupRepository
	memberships    domain.MembershipRepository
	follows        domain.FollowRepository
	events         domain.EventRepository
	authorizer     domain.GroupAuthorizer
	invalidator    domain.ViewInvalidator
	validator      *inputValidator
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewGroupService returns the group service.
func NewGroupService(deps GroupDeps) domain.GroupService {
	return &groupService{
		groups:         deps.Groups,
		memberships:    deps.Memberships,
		follows:        deps.Follows,
		events:         deps.Events,
		authorizer:     deps.Authorizer,
		invalidator:    deps.Invalidator,
		validator:      newInputValidator(),
		logger:         deps.Logger,
		contextTimeout: deps.Timeout,
		now:            time.Now,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, input domain.CreateGroupInput, requester *domain.Identity) (*domain.Group, error) {
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	input.Name = sanitizeText(input.Name)
	input.Description = sanitizeText(input.Description)
	if err := s.validator.check(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	group := &domain.Group{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Description:   input.Description,
		CoverImageURL: optionalString(input.CoverImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.groups.Create(ctx, group, requester.ID); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.invalidator.Invalidate(ctx, domain.ListingView(), domain.GroupView(group.ID))
	s.logger.InfoContext(ctx, "group created", "group_id", group.ID, "user_id", requester.ID)
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID string, requester *domain.Identity) (*domain.GroupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	detail := &domain.GroupDetail{Group: group}
	if detail.MemberCount, err = s.memberships.CountMembers(ctx, groupID); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if detail.FollowerCount, err = s.follows.CountFollowers(ctx, groupID); err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	if detail.UpcomingEvents, err = s.events.ListUpcomingByGroup(ctx, groupID, s.now()); err != nil {
		return nil, fmt.Errorf("list group events: %w", err)
	}
	if requester != nil {
		if detail.IsAdmin, err = s.authorizer.IsGroupAdmin(ctx, requester.ID, groupID); err != nil {
			return nil, fmt.Errorf("get group: %w", err)
		}
		if detail.IsFollowing, err = s.follows.IsFollowing(ctx, groupID, requester.ID); err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}
	return detail, nil
}

func (s *groupService) ToggleFollow(ctx context.Context, groupID string, requester *domain.Identity) (bool, error) {
	if requester == nil {
		return false, domain.ErrUnauthenticated
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return false, fmt.Errorf("get group: %w", err)
	}
	following, err := s.follows.Toggle(ctx, groupID, requester.ID)
	if err != nil {
		return false, fmt.Errorf("toggle follow: %w", err)
	}

	s.invalidator.Invalidate(ctx, domain.GroupView(groupID), domain.ListingView())
	s.logger.InfoContext(ctx, "follow toggled", "group_id", groupID, "user_id", requester.ID, "following", following)
	return following, nil
}
