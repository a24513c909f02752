package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

// slugRegex matches URL-safe event slugs: lowercase letters, digits, hyphens.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegistrationController handles public submission and the operator review
// surface for registrations.
type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRegistrationRequest is the request body for POST /events/{slug}/register.
type SubmitRegistrationRequest struct {
	FullName string         `json:"full_name"`
	Email    string         `json:"email"`
	FormData map[string]any `json:"form_data"`
}

// Validate implements helpers.Validator.
func (s *SubmitRegistrationRequest) Validate() []string {
	var errs []string
	s.FullName = strings.TrimSpace(s.FullName)
	s.Email = strings.TrimSpace(strings.ToLower(s.Email))
	if s.FullName == "" {
		errs = append(errs, "full_name is required")
	}
	if s.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(s.Email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// SubmitRegistrationSuccessResponse is the success response envelope for POST /events/{slug}/register (201).
type SubmitRegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Submit godoc
// @Summary Submit a registration
// @Description Public endpoint: submits a registration for the event with the given slug. One registration per email per event. Submissions are closed once the event has started.
// @Tags registrations
// @Accept json
// @Produce json
// @Param slug path string true "Event slug"
// @Param body body SubmitRegistrationRequest true "Registrant details and answers"
// @Success 201 {object} controllers.SubmitRegistrationSuccessResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate email)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event has passed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/register [post]
func (c *RegistrationController) Submit(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" || !slugRegex.MatchString(slug) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event slug")
		return
	}

	var req SubmitRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Service.Submit(r.Context(), slug, domain.SubmitRegistrationInput{
		FullName: req.FullName,
		Email:    req.Email,
		FormData: req.FormData,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrDuplicateRegistration):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "a registration with this email already exists for the event")
		case errors.Is(err, domain.ErrEventPassed):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "event has already passed")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ReviewSuccessResponse is the success response envelope for POST /registrations/{registrationID}/accept and /reject (200).
type ReviewSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Accept godoc
// @Summary Accept a registration
// @Description Moves a submitted registration to accepted and emails the registrant an RSVP link. A registration already accepted by a concurrent operator returns 200 unchanged.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.ReviewSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not reviewable in its current status)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/accept [post]
func (c *RegistrationController) Accept(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, c.Service.Accept)
}

// Reject godoc
// @Summary Reject a registration
// @Description Moves a submitted registration to rejected. No email is sent on rejection. A registration already rejected by a concurrent operator returns 200 unchanged.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.ReviewSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not reviewable in its current status)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/reject [post]
func (c *RegistrationController) Reject(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, c.Service.Reject)
}

func (c *RegistrationController) review(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, registrationID, reviewerID string) (*domain.Registration, error)) {
	id := r.PathValue("registrationID")
	if id == "" || !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	reviewerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := decide(r.Context(), id, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		case errors.Is(err, domain.ErrNotEligible):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration is not reviewable in its current status")
		case errors.Is(err, domain.ErrTransitionConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration changed concurrently, retry")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListRegistrationsResponse is the response body for GET /events/{eventID}/registrations.
type ListRegistrationsResponse struct {
	Registrations []*domain.Registration `json:"registrations"`
	Pagination    helpers.PaginationMeta `json:"pagination"`
}

// ListRegistrationsSuccessResponse is the success response envelope for GET /events/{eventID}/registrations (200).
type ListRegistrationsSuccessResponse struct {
	Data  ListRegistrationsResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListByEvent godoc
// @Summary List registrations for an event
// @Description Returns the registrations for an event, newest first, with pagination. Optional status filter and name/email search.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param status query string false "Filter by status (submitted, accepted, rejected, confirmed, not_attending)"
// @Param search query string false "Case-insensitive match on full name or email"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse "data contains registrations and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" || !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var filter domain.RegistrationListFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.RegistrationStatus(s)
		if !status.IsValid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown status")
			return
		}
		filter.Status = &status
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	params := helpers.ParsePagination(r)

	regs, total, err := c.Service.ListByEvent(r.Context(), eventID, filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{
		Registrations: regs,
		Pagination:    helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetRegistrationSuccessResponse is the success response envelope for GET /registrations/{registrationID} (200).
type GetRegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Get godoc
// @Summary Get a registration
// @Description Returns a single registration by id, including non-public statuses. Operator view.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} controllers.GetRegistrationSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [get]
func (c *RegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("registrationID")
	if id == "" || !uuidRegex.MatchString(id) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}
