package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestLoginCodeRequest is the request body for POST /auth/login-code.
type RequestLoginCodeRequest struct {
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (r *RequestLoginCodeRequest) Validate() []string {
	if strings.TrimSpace(r.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// RequestLoginCode godoc
// @Summary Request a one-time login code
// @Description Sends a short-lived six digit login code to the given email address. Always returns 204 for a well-formed email so addresses cannot be enumerated.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.RequestLoginCodeRequest true "Email address"
// @Success 204 "Code sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login-code [post]
func (c *AuthController) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyLoginCodeRequest is the request body for POST /auth/verify.
type VerifyLoginCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements helpers.Validator.
func (r *VerifyLoginCodeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// VerifyLoginCodeResponse is the data payload for a successful POST /auth/verify.
type VerifyLoginCodeResponse struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"profile"`
}

// VerifyLoginCodeSuccessResponse is the success response envelope for POST /auth/verify (200).
type VerifyLoginCodeSuccessResponse struct {
	Data  *VerifyLoginCodeResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// VerifyLoginCode godoc
// @Summary Exchange a login code for a bearer token
// @Description Verifies the one-time code and returns a signed bearer token plus the caller's profile. A profile is created with defaults on first login.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.VerifyLoginCodeRequest true "Email and six digit code"
// @Success 200 {object} controllers.VerifyLoginCodeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (invalid or expired code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/verify [post]
func (c *AuthController) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyLoginCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	token, profile, err := c.Service.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired code")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, &VerifyLoginCodeResponse{Token: token, Profile: profile})
}
