package controllers

import (
	"log/slog"
	"net/http"

	"courtshare/internal/delivery/http/helpers"
	"courtshare/internal/delivery/http/middleware"
	"courtshare/internal/domain"
)

const (
	defaultPastLimit = 4
	maxPastLimit     = 100
)

// CreateEventRequest is the request body for POST /groups/{groupID}/events.
// The group comes from the path.
type CreateEventRequest struct {
	Title           string              `json:"title" example:"Friday night doubles"`
	Date            string              `json:"date" example:"2025-03-07"`
	StartTime       string              `json:"start_time" example:"19:00"`
	EndTime         string              `json:"end_time" example:"21:00"`
	LocationText    string              `json:"location_text" example:"Court 3, Sports Complex"`
	MapURL          string              `json:"map_url"`
	CourtCost       int                 `json:"court_cost" example:"600"`
	ShuttleCost     int                 `json:"shuttle_cost" example:"200"`
	OtherCost       *int                `json:"other_cost"`
	MaxParticipants int                 `json:"max_participants" example:"8"`
	AllowOverbook   bool                `json:"allow_overbook"`
	SkillLevels     []domain.SkillLevel `json:"skill_levels"`
	Notes           string              `json:"notes"`
	ImageURLs       []string            `json:"image_urls"`
}

func (req CreateEventRequest) toInput(groupID string) domain.CreateEventInput {
	return domain.CreateEventInput{
		GroupID:         groupID,
		Title:           req.Title,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		LocationText:    req.LocationText,
		MapURL:          req.MapURL,
		CourtCost:       req.CourtCost,
		ShuttleCost:     req.ShuttleCost,
		OtherCost:       req.OtherCost,
		MaxParticipants: req.MaxParticipants,
		AllowOverbook:   req.AllowOverbook,
		SkillLevels:     req.SkillLevels,
		Notes:           req.Notes,
		ImageURLs:       req.ImageURLs,
	}
}

// CreateEventSuccessResponse is the success response envelope for POST /groups/{groupID}/events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload for GET /events.
type ListEventsResponse struct {
	Items      []*domain.EventListItem `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListPastEventsSuccessResponse is the success response envelope for GET /events/past (200).
type ListPastEventsSuccessResponse struct {
	Data  []*domain.EventListItem `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EventDetailSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type EventDetailSuccessResponse struct {
	Data  *domain.EventDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// AdminSummarySuccessResponse is the success response envelope for GET /events/{eventID}/admin (200).
type AdminSummarySuccessResponse struct {
	Data  *domain.AdminSummary `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Views   helpers.ViewVersions
}

func NewEventController(logger *slog.Logger, svc domain.EventService, views helpers.ViewVersions) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Views:   views,
	}
}

// CreateEvent godoc
// @Summary Create an event in a group
// @Description Group admins only. Costs are whole currency units; price_per_person is computed on creation as ceil((court+shuttle+other)/max_participants).
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, error.field names the invalid field"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not a group admin)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	groupID, ok := helpers.PathID(w, r, "groupID")
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.toInput(groupID), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListUpcoming godoc
// @Summary List upcoming events
// @Description Events that have not ended yet, soonest first. With followed=1 and a token, only events of followed groups.
// @Tags events
// @Produce json
// @Param followed query bool false "Only groups the requester follows"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Success 304 "not modified"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	requester := middleware.IdentityFromContext(r.Context())
	if helpers.CheckNotModified(w, r, c.Views, domain.ListingView(), requesterID(requester)) {
		return
	}
	page := helpers.ParsePagination(r)
	items, total, err := c.Service.ListUpcoming(r.Context(), requester, helpers.ParseBool(r, "followed"), page)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

// ListPast godoc
// @Summary List past events
// @Description Events that have ended, most recent first.
// @Tags events
// @Produce json
// @Param limit query int false "Number of events (default 4, max 100)"
// @Success 200 {object} controllers.ListPastEventsSuccessResponse "data contains the events"
// @Success 304 "not modified"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/past [get]
func (c *EventController) ListPast(w http.ResponseWriter, r *http.Request) {
	if helpers.CheckNotModified(w, r, c.Views, domain.ListingView(), "") {
		return
	}
	items, err := c.Service.ListPast(r.Context(), helpers.ParseLimit(r, "limit", defaultPastLimit, maxPastLimit))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// GetEvent godoc
// @Summary Get an event
// @Description Event with its group and JOINED head count. With a token, is_joined and is_admin describe the requester.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailSuccessResponse "data contains the event detail"
// @Success 304 "not modified"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	requester := middleware.IdentityFromContext(r.Context())
	if helpers.CheckNotModified(w, r, c.Views, domain.EventView(eventID), requesterID(requester)) {
		return
	}
	detail, err := c.Service.GetEventDetail(r.Context(), eventID, requester)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// GetAdminSummary godoc
// @Summary Attendee summary for group admins
// @Description JOINED participants of the event with name and email. Group admins only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.AdminSummarySuccessResponse "data contains the summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/admin [get]
func (c *EventController) GetAdminSummary(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	summary, err := c.Service.GetAdminSummary(r.Context(), eventID, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

func requesterID(identity *domain.Identity) string {
	if identity == nil {
		return ""
	}
	return identity.ID
}
