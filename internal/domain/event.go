package domain

import (
	"context"
	"time"
)

// SkillLevel tags the intended player proficiency of an event.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillCompetitive  SkillLevel = "COMPETITIVE"
)

// SkillLevels lists every valid SkillLevel in display order.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillCompetitive}

// Valid reports whether l is one of SkillLevels.
func (l SkillLevel) Valid() bool {
	for _, s := range SkillLevels {
		if s == l {
			return true
		}
	}
	return false
}

// MaxEventImages is the largest number of images an event may carry.
const MaxEventImages = 5

// Event is a scheduled, cost-shared session owned by a group.
// PricePerPerson is computed once at creation and never recomputed.
// swagger:model Event
type Event struct {
	ID              string       `json:"id"`
	GroupID         string       `json:"group_id"`
	CreatedByID     string       `json:"created_by_id"`
	Title           string       `json:"title"`
	StartAt         time.Time    `json:"start_at"`
	EndAt           time.Time    `json:"end_at"`
	LocationText    string       `json:"location_text"`
	MapURL          *string      `json:"map_url"`
	CourtCost       int          `json:"court_cost"`
	ShuttleCost     int          `json:"shuttle_cost"`
	OtherCost       int          `json:"other_cost"`
	PricePerPerson  int          `json:"price_per_person"`
	MaxParticipants int          `json:"max_participants"`
	AllowOverbook   bool         `json:"allow_overbook"`
	SkillLevels     []SkillLevel `json:"skill_levels"`
	Notes           *string      `json:"notes"`
	ImageURLs       []string     `json:"image_urls"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// CreateEventInput is the validated payload for event creation. Date is a calendar date
// (2006-01-02); StartTime and EndTime are times of day (15:04) on that date.
type CreateEventInput struct {
	GroupID         string       `json:"group_id" validate:"required"`
	Title           string       `json:"title" validate:"min=3"`
	Date            string       `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string       `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string       `json:"end_time" validate:"required,datetime=15:04"`
	LocationText    string       `json:"location_text" validate:"min=3"`
	MapURL          string       `json:"map_url" validate:"omitempty,url"`
	CourtCost       int          `json:"court_cost" validate:"gte=0"`
	ShuttleCost     int          `json:"shuttle_cost" validate:"gte=0"`
	OtherCost       *int         `json:"other_cost" validate:"omitempty,gte=0"`
	MaxParticipants int          `json:"max_participants" validate:"gte=2"`
	AllowOverbook   bool         `json:"allow_overbook"`
	SkillLevels     []SkillLevel `json:"skill_levels" validate:"min=1,dive,oneof=BEGINNER INTERMEDIATE ADVANCED COMPETITIVE"`
	Notes           string       `json:"notes"`
	ImageURLs       []string     `json:"image_urls" validate:"max=5,dive,url"`
}

// EventListItem is an event in a listing, with its group name and JOINED head count.
type EventListItem struct {
	Event       *Event `json:"event"`
	GroupName   string `json:"group_name"`
	JoinedCount int    `json:"joined_count"`
}

// EventListFilter narrows the upcoming-event listing.
type EventListFilter struct {
	Now              time.Time
	FollowedByUserID string // empty means every group
	Pagination       PaginationParams
}

// EventDetail is the public view of one event.
type EventDetail struct {
	Event       *Event `json:"event"`
	Group       *Group `json:"group"`
	JoinedCount int    `json:"joined_count"`
	IsJoined    bool   `json:"is_joined"`
	IsAdmin     bool   `json:"is_admin"`
}

// AttendeeSummary is the admin-only projection of a JOINED participant.
type AttendeeSummary struct {
	ParticipantID string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Status        ParticipantStatus `json:"status"`
}

// AdminSummary lists the JOINED participants of an event.
type AdminSummary struct {
	EventID      string             `json:"event_id"`
	Count        int                `json:"count"`
	Participants []*AttendeeSummary `json:"participants"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListUpcoming(ctx context.Context, filter EventListFilter) ([]*EventListItem, int, error)
	ListPast(ctx context.Context, now time.Time, limit int) ([]*EventListItem, error)
	ListUpcomingByGroup(ctx context.Context, groupID string, now time.Time) ([]*EventListItem, error)
}

// EventService is the event lifecycle manager.
type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput, requester *Identity) (*Event, error)
	GetAdminSummary(ctx context.Context, eventID string, requester *Identity) (*AdminSummary, error)
	GetEventDetail(ctx context.Context, eventID string, requester *Identity) (*EventDetail, error)
	ListUpcoming(ctx context.Context, requester *Identity, onlyFollowed bool, page PaginationParams) ([]*EventListItem, int, error)
	ListPast(ctx context.Context, limit int) ([]*EventListItem, error)
}
