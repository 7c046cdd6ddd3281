package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	conferenceController *controllers.ConferenceController,
	sessionController *controllers.SessionController,
	wishlistController *controllers.WishlistController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login-code", authController.RequestLoginCode)
	mux.HandleFunc("POST /auth/verify", authController.VerifyLoginCode)

	// Profile
	mux.HandleFunc("GET /profile", requireAuth(profileController.GetProfile))
	mux.HandleFunc("POST /profile", requireAuth(profileController.SaveProfile))
	mux.HandleFunc("GET /profile/conferences/created", requireAuth(conferenceController.GetConferencesCreated))
	mux.HandleFunc("GET /profile/conferences/attending", requireAuth(conferenceController.GetConferencesToAttend))

	// Wishlist
	mux.HandleFunc("GET /profile/wishlist", requireAuth(wishlistController.ListWishlist))
	mux.HandleFunc("POST /profile/wishlist/{sessionKey}", requireAuth(wishlistController.AddToWishlist))
	mux.HandleFunc("DELETE /profile/wishlist/{sessionKey}", requireAuth(wishlistController.RemoveFromWishlist))

	// Conferences
	mux.HandleFunc("POST /conferences", requireAuth(conferenceController.CreateConference))
	mux.HandleFunc("POST /conferences/query", conferenceController.QueryConferences)
	mux.HandleFunc("GET /conferences/{conferenceKey}", conferenceController.GetConference)
	mux.HandleFunc("PUT /conferences/{conferenceKey}", requireAuth(conferenceController.UpdateConference))
	mux.HandleFunc("POST /conferences/{conferenceKey}/registration", requireAuth(conferenceController.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceKey}/registration", requireAuth(conferenceController.Unregister))

	// Sessions
	mux.HandleFunc("POST /conferences/{conferenceKey}/sessions", requireAuth(sessionController.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceKey}/sessions", sessionController.ListSessions)
	mux.HandleFunc("GET /sessions", sessionController.ListSessionsBySpeaker)
	mux.HandleFunc("GET /featured-speaker", sessionController.GetFeaturedSpeaker)

	// Speakers
	mux.HandleFunc("POST /speakers", requireAuth(sessionController.CreateSpeaker))
	mux.HandleFunc("GET /speakers", sessionController.QuerySpeakers)

	// Announcements
	mux.HandleFunc("GET /announcement", conferenceController.GetAnnouncement)
	mux.HandleFunc("POST /tasks/refresh-announcement", requireAuth(conferenceController.RefreshAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
