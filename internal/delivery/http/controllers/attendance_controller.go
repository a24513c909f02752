package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

// bulkCheckInMax bounds one bulk request.
const bulkCheckInMax = 200

// AttendanceController handles day-of check-in for operators.
type AttendanceController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewAttendanceController(logger *slog.Logger, svc domain.AttendanceService) *AttendanceController {
	return &AttendanceController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckInRequest is the request body for POST /attendance/check-in.
type CheckInRequest struct {
	RegistrationID string `json:"registration_id"`
}

// Validate implements helpers.Validator.
func (c CheckInRequest) Validate() []string {
	if c.RegistrationID == "" {
		return []string{"registration_id is required"}
	}
	if !uuidRegex.MatchString(c.RegistrationID) {
		return []string{"registration_id must be a UUID"}
	}
	return nil
}

// CheckInSuccessResponse is the success response envelope for POST /attendance/check-in (200).
type CheckInSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CheckIn godoc
// @Summary Check in a registration
// @Description Flags an accepted or confirmed registration as checked in, recording the operator and time. A second check-in is a conflict; a declined registration reports its own conflict so the operator sees why at the door.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Registration to check in"
// @Success 200 {object} controllers.CheckInSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already checked in, declined, or not eligible)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendance/check-in [post]
func (c *AttendanceController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.CheckIn(r.Context(), req.RegistrationID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		case errors.Is(err, domain.ErrAlreadyCheckedIn):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration is already checked in")
		case errors.Is(err, domain.ErrCheckInDeclined):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "cannot check in a registration that declined attendance")
		case errors.Is(err, domain.ErrNotEligible):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration is not eligible for check-in")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// BulkCheckInRequest is the request body for POST /attendance/bulk-check-in.
type BulkCheckInRequest struct {
	RegistrationIDs []string `json:"registration_ids"`
}

// Validate implements helpers.Validator.
func (b BulkCheckInRequest) Validate() []string {
	if len(b.RegistrationIDs) == 0 {
		return []string{"registration_ids is required"}
	}
	if len(b.RegistrationIDs) > bulkCheckInMax {
		return []string{"too many registration_ids in one request"}
	}
	for _, id := range b.RegistrationIDs {
		if !uuidRegex.MatchString(id) {
			return []string{"registration_ids must all be UUIDs"}
		}
	}
	return nil
}

// BulkCheckInSuccessResponse is the success response envelope for POST /attendance/bulk-check-in (200).
type BulkCheckInSuccessResponse struct {
	Data  []domain.CheckInResult `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// BulkCheckIn godoc
// @Summary Check in several registrations
// @Description Attempts check-in for each id and returns a per-registration outcome. The batch never fails as a whole; individual failures are reported in the result list.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkCheckInRequest true "Registrations to check in"
// @Success 200 {object} controllers.BulkCheckInSuccessResponse "data contains one result per registration id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /attendance/bulk-check-in [post]
func (c *AttendanceController) BulkCheckIn(w http.ResponseWriter, r *http.Request) {
	var req BulkCheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	operatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	results, err := c.Service.BulkCheckIn(r.Context(), req.RegistrationIDs, operatorID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, results)
}

// StatsSuccessResponse is the success response envelope for GET /events/{eventID}/attendance/stats (200).
type StatsSuccessResponse struct {
	Data  *domain.CheckInStats `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Stats godoc
// @Summary Attendance stats for an event
// @Description Returns per-status registration counts and the checked-in total for an event.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.StatsSuccessResponse "data contains the counts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance/stats [get]
func (c *AttendanceController) Stats(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" || !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	stats, err := c.Service.Stats(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
