package domain

import "context"

// ViewKind names a cached read view.
type ViewKind string

const (
	ViewListing ViewKind = "listing"
	ViewGroup   ViewKind = "group"
	ViewEvent   ViewKind = "event"
)

// View identifies one cached view. Key is empty for the listing.
type View struct {
	Kind ViewKind
	Key  string
}

// ListingView is the home listing of upcoming and past events.
func ListingView() View { return View{Kind: ViewListing} }

// GroupView is the detail view of groupID.
func GroupView(groupID string) View { return View{Kind: ViewGroup, Key: groupID} }

// EventView is the detail view of eventID.
func EventView(eventID string) View { return View{Kind: ViewEvent, Key: eventID} }

// String renders the view as "kind" or "kind:key".
func (v View) String() string {
	if v.Key == "" {
		return string(v.Kind)
	}
	return string(v.Kind) + ":" + v.Key
}

// ViewInvalidator is told which views went stale after a successful mutation.
// Invalidation is best effort and never fails the mutation.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, views ...View)
}
