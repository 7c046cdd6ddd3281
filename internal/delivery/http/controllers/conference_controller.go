package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// uuidRegexConference matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexConference = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type ConferenceController struct {
	Logger        *slog.Logger
	Conferences   domain.ConferenceService
	Registrations domain.RegistrationService
}

func NewConferenceController(logger *slog.Logger, conferences domain.ConferenceService, registrations domain.RegistrationService) *ConferenceController {
	return &ConferenceController{
		Logger:        logger,
		Conferences:   conferences,
		Registrations: registrations,
	}
}

// ConferenceSuccessResponse is the success response envelope for single-conference endpoints.
type ConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ConferenceListSuccessResponse is the success response envelope for conference list endpoints.
type ConferenceListSuccessResponse struct {
	Data  []*domain.Conference `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ConferenceFormRequest is the request body for POST /conferences and PUT /conferences/{conferenceKey}.
type ConferenceFormRequest struct {
	domain.ConferenceForm
}

// Validate implements helpers.Validator. Full validation (date ordering,
// capacity checks against booked seats) happens in the service.
func (r *ConferenceFormRequest) Validate() []string {
	r.Name = strings.TrimSpace(r.Name)
	return nil
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference organized by the authenticated caller. All seats start available. A confirmation email is queued after the conference is committed.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ConferenceFormRequest true "Conference fields"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req ConferenceFormRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conference, err := c.Conferences.CreateConference(r.Context(), caller, &req.ConferenceForm)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, conference)
}

// GetConference godoc
// @Summary Get a conference by key
// @Tags conferences
// @Produce json
// @Param conferenceKey path string true "Conference key (UUID)"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	conference, err := c.Conferences.GetConference(r.Context(), conferenceKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Updates the conference. Only the organizer may update. Reducing capacity below the number of already booked seats fails with 409.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key (UUID)"
// @Param body body controllers.ConferenceFormRequest true "Fields to update; zero values are left unchanged"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (capacity below booked seats)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	var req ConferenceFormRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conference, err := c.Conferences.UpdateConference(r.Context(), caller, conferenceKey, &req.ConferenceForm)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// QueryConferencesRequest is the request body for POST /conferences/query.
type QueryConferencesRequest struct {
	domain.ConferenceQuery
}

// QueryConferencesResponse is the data payload for POST /conferences/query.
type QueryConferencesResponse struct {
	Conferences []*domain.Conference   `json:"conferences"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// QueryConferencesSuccessResponse is the success response envelope for POST /conferences/query (200).
type QueryConferencesSuccessResponse struct {
	Data  *QueryConferencesResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// QueryConferences godoc
// @Summary Query conferences with filters
// @Description Returns conferences matching the given equality and range filters, paginated. Omitted filters are not applied.
// @Tags conferences
// @Accept json
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param body body controllers.QueryConferencesRequest true "Filters; all fields optional"
// @Success 200 {object} controllers.QueryConferencesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryConferencesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	params := helpers.ParsePagination(r)

	conferences, total, err := c.Conferences.QueryConferences(r.Context(), req.ConferenceQuery, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, &QueryConferencesResponse{
		Conferences: conferences,
		Pagination:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetConferencesCreated godoc
// @Summary Get conferences created by the current user
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/conferences/created [get]
func (c *ConferenceController) GetConferencesCreated(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conferences, err := c.Conferences.GetConferencesCreated(r.Context(), caller)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// GetConferencesToAttend godoc
// @Summary Get conferences the current user is registered for
// @Description Returns the conferences on the caller's attend list, in registration order. Conferences deleted since registration are omitted.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/conferences/attending [get]
func (c *ConferenceController) GetConferencesToAttend(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conferences, err := c.Conferences.GetConferencesToAttend(r.Context(), caller)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// RegistrationSuccessResponse is the success response envelope for registration endpoints.
type RegistrationSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Register godoc
// @Summary Register for a conference
// @Description Books one seat and adds the conference to the caller's attend list, atomically. Fails with 409 when already registered or when no seats are left.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key (UUID)"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or sold out)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	registered, err := c.Registrations.Register(r.Context(), caller, conferenceKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, registered)
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Releases the caller's seat. Returns data=false (not an error) when the caller was not registered.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data is true when a registration was removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	unregistered, err := c.Registrations.Unregister(r.Context(), caller, conferenceKey)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, unregistered)
}

// AnnouncementSuccessResponse is the success response envelope for announcement endpoints.
// Data is null when no announcement is cached.
type AnnouncementSuccessResponse struct {
	Data  *domain.Announcement `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// GetAnnouncement godoc
// @Summary Get the current announcement
// @Description Returns the cached announcement about nearly sold out conferences. Data is null when none is cached; this is not an error.
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.AnnouncementSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Conferences.GetAnnouncement(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, announcement)
}

// RefreshAnnouncement godoc
// @Summary Rebuild the announcement from near-capacity conferences
// @Description Recomputes the nearly-sold-out announcement and publishes it to the cache. Intended to be invoked by a scheduled task, not user traffic.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AnnouncementSuccessResponse "data is null when no conference is near capacity"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/refresh-announcement [post]
func (c *ConferenceController) RefreshAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Conferences.RefreshAnnouncement(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, announcement)
}

// conferenceKeyFromPath extracts and validates the conferenceKey path value.
// On failure it writes a 400 and returns ok=false.
func conferenceKeyFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	conferenceKey := r.PathValue("conferenceKey")
	if conferenceKey == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conferenceKey")
		return "", false
	}
	if !uuidRegexConference.MatchString(conferenceKey) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conferenceKey")
		return "", false
	}
	return conferenceKey, true
}
