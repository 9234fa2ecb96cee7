package controllers

import (
	"log/slog"
	"net/http"

	"courtshare/internal/delivery/http/helpers"
	"courtshare/internal/delivery/http/middleware"
	"courtshare/internal/domain"
)

// ParticipantSuccessResponse is the success response envelope for join and cancel.
type ParticipantSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipationService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Join godoc
// @Summary Join an event
// @Description Joins the requester. A cancelled record is reactivated. Non-overbookable events refuse joins once full.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipantSuccessResponse "data contains the participant record"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_joined or event_full"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [post]
func (c *ParticipantController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	p, err := c.Service.Join(r.Context(), eventID, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// Cancel godoc
// @Summary Cancel attendance
// @Description Moves the requester's record to CANCELLED. The record is kept for rejoining.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipantSuccessResponse "data contains the participant record"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: not_joined"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants/me [delete]
func (c *ParticipantController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "eventID")
	if !ok {
		return
	}
	p, err := c.Service.Cancel(r.Context(), eventID, middleware.IdentityFromContext(r.Context()))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}
