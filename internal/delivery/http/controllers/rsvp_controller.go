package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// RSVPController handles the public RSVP surface. Every endpoint is keyed by
// the registration UUID alone; there is no authentication on this surface.
type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRSVPController(logger *slog.Logger, svc domain.RegistrationService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// registrationIDFromPath extracts and validates the registration UUID from the
// request path. Writes a 400 and returns false on a malformed id.
func registrationIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("registrationID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationID")
		return "", false
	}
	if !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return "", false
	}
	return id, true
}

// writeRSVPActionError maps the workflow sentinels raised by confirm/decline
// to HTTP statuses. A passed event always reports as passed, never as cutoff.
func (c *RSVPController) writeRSVPActionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
	case errors.Is(err, domain.ErrEventPassed):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "event has already passed")
	case errors.Is(err, domain.ErrRSVPCutoff):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "RSVP changes are closed within 24 hours of the event")
	case errors.Is(err, domain.ErrNotEligible):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrTransitionConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration changed concurrently, retry")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// GetRSVPSuccessResponse is the success response envelope for GET /rsvp/{registrationID} (200).
type GetRSVPSuccessResponse struct {
	Data  *domain.RSVPDetails `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetRSVP godoc
// @Summary Get RSVP details
// @Description Returns the registration, its event summary, and which RSVP actions are currently available. Registrations in a non-public status are indistinguishable from unknown ids (404 for both).
// @Tags rsvp
// @Produce json
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.GetRSVPSuccessResponse "data contains registration, event, and action flags"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{registrationID} [get]
func (c *RSVPController) GetRSVP(w http.ResponseWriter, r *http.Request) {
	id, ok := registrationIDFromPath(w, r)
	if !ok {
		return
	}

	details, err := c.Service.RSVPDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// RSVPActionSuccessResponse is the success response envelope for POST /rsvp/{registrationID}/confirm and /decline (200).
type RSVPActionSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Confirm godoc
// @Summary Confirm attendance
// @Description Confirms attendance for an accepted registration. Idempotent: re-confirming an already confirmed registration returns 200 without sending another email. Blocked within 24 hours of the event start and once the event has passed.
// @Tags rsvp
// @Produce json
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RSVPActionSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (cutoff, ineligible status, or concurrent change)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event has passed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{registrationID}/confirm [post]
func (c *RSVPController) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := registrationIDFromPath(w, r)
	if !ok {
		return
	}

	reg, err := c.Service.Confirm(r.Context(), id)
	if err != nil {
		c.writeRSVPActionError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Decline godoc
// @Summary Decline attendance
// @Description Declines attendance for an accepted or confirmed registration. Idempotent: re-declining returns 200 without sending another email. A checked-in registration cannot decline. Blocked within 24 hours of the event start and once the event has passed.
// @Tags rsvp
// @Produce json
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.RSVPActionSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (cutoff, ineligible status, checked in, or concurrent change)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event has passed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{registrationID}/decline [post]
func (c *RSVPController) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := registrationIDFromPath(w, r)
	if !ok {
		return
	}

	reg, err := c.Service.Decline(r.Context(), id)
	if err != nil {
		c.writeRSVPActionError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}
