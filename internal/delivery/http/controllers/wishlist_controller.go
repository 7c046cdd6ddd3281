package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// uuidRegexWishlist matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexWishlist = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type WishlistController struct {
	Logger  *slog.Logger
	Service domain.WishlistService
}

func NewWishlistController(logger *slog.Logger, svc domain.WishlistService) *WishlistController {
	return &WishlistController{
		Logger:  logger,
		Service: svc,
	}
}

// WishlistMutationSuccessResponse is the success response envelope for wishlist add/remove endpoints.
type WishlistMutationSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// AddToWishlist godoc
// @Summary Add a session to the current user's wishlist
// @Description Adds the session to the caller's wishlist. The session must exist at the time of the write. Fails with 409 when already wishlisted.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionKey path string true "Session key (UUID)"
// @Success 201 {object} controllers.WishlistMutationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (session does not exist)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already wishlisted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/{sessionKey} [post]
func (c *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	sessionKey, ok := sessionKeyFromPath(w, r)
	if !ok {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	added, err := c.Service.AddToWishlist(r.Context(), caller, sessionKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, added)
}

// RemoveFromWishlist godoc
// @Summary Remove a session from the current user's wishlist
// @Description Removes the session if present. Returns data=false (not an error) when the session was not on the wishlist.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionKey path string true "Session key (UUID)"
// @Success 200 {object} controllers.WishlistMutationSuccessResponse "data is true when a session was removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (profile does not exist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist/{sessionKey} [delete]
func (c *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	sessionKey, ok := sessionKeyFromPath(w, r)
	if !ok {
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	removed, err := c.Service.RemoveFromWishlist(r.Context(), caller, sessionKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, removed)
}

// ListWishlist godoc
// @Summary Get the sessions on the current user's wishlist
// @Description Returns the wishlisted sessions in the order they were added. Sessions deleted since they were wishlisted are omitted.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/wishlist [get]
func (c *WishlistController) ListWishlist(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	sessions, err := c.Service.ListWishlist(r.Context(), caller)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	if sessions == nil {
		sessions = []*domain.Session{}
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// sessionKeyFromPath extracts and validates the sessionKey path value.
// On failure it writes a 400 and returns ok=false.
func sessionKeyFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionKey := r.PathValue("sessionKey")
	if sessionKey == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing sessionKey")
		return "", false
	}
	if !uuidRegexWishlist.MatchString(sessionKey) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sessionKey")
		return "", false
	}
	return sessionKey, true
}
