package controllers

import (
	"log/slog"
	"net/http"

	"courtshare/internal/delivery/http/helpers"
	"courtshare/internal/delivery/http/middleware"
	"courtshare/internal/domain"
)

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name          string `json:"name" example:"Sukhumvit Shuttlers"`
	Description   string `json:"description" example:"Weekly social doubles for all levels"`
	CoverImageURL string `json:"cover_image_url"`
}

// GroupSuccessResponse is the success response envelope for POST /groups (201).
type GroupSuccessResponse struct {
	Data  *domain.Group     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GroupDetailSuccessResponse is the success response envelope for GET /groups/{groupID} (200).
type GroupDetailSuccessResponse struct {
	Data  *domain.GroupDetail `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// FollowResponse is the data payload for POST /groups/{groupID}/follow.
type FollowResponse struct {
	Following bool `json:"following"`
}

// FollowSuccessResponse is the success response envelope for POST /groups/{groupID}/follow (200).
type FollowSuccessResponse struct {
	Data  FollowResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
	Views   helpers.ViewVersions
}

func NewGroupController(logger *slog.Logger, svc domain.GroupService, views helpers.ViewVersions) *GroupController {
	return &GroupController{
		Logger:  logger,
		Service: svc,
		Views:   views,
	}
}

// CreateGroup godoc
// @Summary Create a group
// @Description The requester becomes the group's first ADMIN.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param group body CreateGroupRequest true "Group data"
// @Success 201 {object} controllers.GroupSuccessResponse "data contains the created group"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	input := domain.CreateGroupInput{Name: req.Name, Description: req.Description, CoverImageURL: req.CoverImageURL}
	group, err := c.Service.CreateGroup(r.Context(), input, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, group)
}

// GetGroup godoc
// @Summary Get a group
// @Description Group with follower and member counts and upcoming events. With a token, is_admin and is_following describe the requester.
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.GroupDetailSuccessResponse "data contains the group detail"
// @Success 304 "not modified"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [get]
func (c *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := helpers.PathID(w, r, "groupID")
	if !ok {
		return
	}
	requester := middleware.IdentityFromContext(r.Context())
	if helpers.CheckNotModified(w, r, c.Views, domain.GroupView(groupID), requesterID(requester)) {
		return
	}
	detail, err := c.Service.GetGroup(r.Context(), groupID, requester)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// ToggleFollow godoc
// @Summary Follow or unfollow a group
// @Description Flips the requester's follow of the group and returns the new state.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.FollowSuccessResponse "data.following is the new state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/follow [post]
func (c *GroupController) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	groupID, ok := helpers.PathID(w, r, "groupID")
	if !ok {
		return
	}
	following, err := c.Service.ToggleFollow(r.Context(), groupID, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, FollowResponse{Following: following})
}
