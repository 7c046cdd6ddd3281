package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type SessionController struct {
	Logger   *slog.Logger
	Sessions domain.SessionService
	Speakers domain.SpeakerService
}

func NewSessionController(logger *slog.Logger, sessions domain.SessionService, speakers domain.SpeakerService) *SessionController {
	return &SessionController{
		Logger:   logger,
		Sessions: sessions,
		Speakers: speakers,
	}
}

// SessionSuccessResponse is the success response envelope for single-session endpoints.
type SessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionListSuccessResponse is the success response envelope for session list endpoints.
type SessionListSuccessResponse struct {
	Data  []*domain.Session `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionFormRequest is the request body for POST /conferences/{conferenceKey}/sessions.
type SessionFormRequest struct {
	domain.SessionForm
}

// Validate implements helpers.Validator. Window checks against the conference
// happen in the service, inside the creating transaction.
func (r *SessionFormRequest) Validate() []string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

// CreateSession godoc
// @Summary Create a session in a conference
// @Description Creates a session. The session window must fall inside the conference window and every referenced speaker must exist. When a speaker reaches two or more sessions in the conference, the featured speaker slot is republished.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceKey path string true "Conference key (UUID)"
// @Param body body controllers.SessionFormRequest true "Session fields"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid dates)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (conference or speaker)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (session outside conference window)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	var req SessionFormRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	session, err := c.Sessions.CreateSession(r.Context(), caller, conferenceKey, &req.SessionForm)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
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

	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// ListSessions godoc
// @Summary List sessions of a conference
// @Description Returns the conference's sessions. When the type query parameter is set, only sessions of that type are returned, ordered by start date.
// @Tags sessions
// @Produce json
// @Param conferenceKey path string true "Conference key (UUID)"
// @Param type query string false "Session type filter (e.g. workshop, keynote)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceKey}/sessions [get]
func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	conferenceKey, ok := conferenceKeyFromPath(w, r)
	if !ok {
		return
	}

	var sessions []*domain.Session
	var err error
	if typeOfSession := r.URL.Query().Get("type"); typeOfSession != "" {
		sessions, err = c.Sessions.ListSessionsByType(r.Context(), conferenceKey, typeOfSession)
	} else {
		sessions, err = c.Sessions.ListSessions(r.Context(), conferenceKey)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "conference not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// ListSessionsBySpeaker godoc
// @Summary List sessions by speaker across all conferences
// @Description Returns every session the speaker appears in. The speaker parameter is either a speaker key (email) or an exact speaker name; names are resolved to a key first.
// @Tags sessions
// @Produce json
// @Param speaker query string true "Speaker key (email) or exact name"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown speaker name)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [get]
func (c *SessionController) ListSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	speaker := strings.TrimSpace(r.URL.Query().Get("speaker"))
	if speaker == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing speaker")
		return
	}

	sessions, err := c.Sessions.ListSessionsBySpeaker(r.Context(), speaker)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// FeaturedSpeakerSuccessResponse is the success response envelope for GET /featured-speaker.
// Data is null when no featured speaker is cached.
type FeaturedSpeakerSuccessResponse struct {
	Data  *domain.FeaturedSpeaker `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetFeaturedSpeaker godoc
// @Summary Get the current featured speaker
// @Description Returns the cached featured speaker. There is one slot shared by all conferences; the most recent qualifying session creation wins. Data is null when nothing is cached.
// @Tags sessions
// @Produce json
// @Success 200 {object} controllers.FeaturedSpeakerSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /featured-speaker [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	featured, err := c.Sessions.GetFeaturedSpeaker(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, featured)
}

// SpeakerSuccessResponse is the success response envelope for POST /speakers.
type SpeakerSuccessResponse struct {
	Data  *domain.Speaker   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SpeakerListSuccessResponse is the success response envelope for GET /speakers.
type SpeakerListSuccessResponse struct {
	Data  []*domain.Speaker `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SpeakerFormRequest is the request body for POST /speakers.
type SpeakerFormRequest struct {
	domain.SpeakerForm
}

// Validate implements helpers.Validator.
func (r *SpeakerFormRequest) Validate() []string {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return []string{"email is required"}
	}
	return nil
}

// CreateSpeaker godoc
// @Summary Create or update a speaker
// @Description Creates a speaker keyed by email, or replaces the existing speaker's fields. Sessions reference speakers by this key.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.SpeakerFormRequest true "Speaker fields"
// @Success 201 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [post]
func (c *SessionController) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req SpeakerFormRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	speaker, err := c.Speakers.CreateSpeaker(r.Context(), caller, &req.SpeakerForm)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// QuerySpeakers godoc
// @Summary Query speakers
// @Description Returns speakers filtered by email or exact name. Email wins when both are set; with no filters, all speakers are returned.
// @Tags speakers
// @Produce json
// @Param email query string false "Speaker email (exact)"
// @Param name query string false "Speaker name (exact)"
// @Success 200 {object} controllers.SpeakerListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *SessionController) QuerySpeakers(w http.ResponseWriter, r *http.Request) {
	var q domain.SpeakerQuery
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		q.Email = &email
	}
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		q.Name = &name
	}

	speakers, err := c.Speakers.QuerySpeakers(r.Context(), q)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}
