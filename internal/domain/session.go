package domain

import (
	"context"
	"slices"
	"time"
)

// Session represents a talk or workshop inside a conference. ConferenceKey is
// the owning conference; a session and its conference can be touched in one
// transaction, a session and its speakers cannot.
// swagger:model Session
type Session struct {
	Key           string    `json:"key"`
	ConferenceKey string    `json:"conference_key"`
	Name          string    `json:"name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	StartHour     int       `json:"start_hour"`
	EndHour       int       `json:"end_hour"`
	TypeOfSession string    `json:"type_of_session"`
	Location      string    `json:"location"`
	SpeakerKeys   []string  `json:"speaker_keys"`
	Highlights    []string  `json:"highlights"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Duration returns the session length in seconds.
func (s *Session) Duration() int64 {
	return int64(s.EndDate.Sub(s.StartDate) / time.Second)
}

// HasSpeaker reports whether the speaker key is on the session.
func (s *Session) HasSpeaker(speakerKey string) bool {
	return slices.Contains(s.SpeakerKeys, speakerKey)
}

// SessionForm carries the client-supplied fields for creating a session.
type SessionForm struct {
	Name          string    `json:"name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TypeOfSession string    `json:"type_of_session"`
	Location      string    `json:"location"`
	SpeakerKeys   []string  `json:"speaker_keys"`
	Highlights    []string  `json:"highlights"`
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	// Put creates or replaces the session keyed by Key.
	Put(ctx context.Context, session *Session) error
	// GetByKey returns ErrNotFound when no session exists with the key.
	GetByKey(ctx context.Context, key string) (*Session, error)
	// GetByKeys batch-fetches sessions, preserving key order and silently
	// omitting keys that no longer resolve.
	GetByKeys(ctx context.Context, keys []string) ([]*Session, error)
	// ListByConference returns all sessions of the conference.
	ListByConference(ctx context.Context, conferenceKey string) ([]*Session, error)
	// ListByConferenceAndType returns the conference's sessions of the given
	// type ordered by start date.
	ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*Session, error)
	// ListByConferenceAndSpeaker returns the conference's sessions that
	// reference the speaker key, in creation order.
	ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speakerKey string) ([]*Session, error)
	// ListBySpeaker returns sessions across all conferences that reference
	// the speaker key.
	ListBySpeaker(ctx context.Context, speakerKey string) ([]*Session, error)
}

// SessionService defines session creation and query operations.
type SessionService interface {
	// CreateSession validates the session window against the conference
	// window inside a transaction and, after commit, republishes the featured
	// speaker cache entry when a referenced speaker reaches two sessions.
	CreateSession(ctx context.Context, caller Caller, conferenceKey string, form *SessionForm) (*Session, error)
	ListSessions(ctx context.Context, conferenceKey string) ([]*Session, error)
	ListSessionsByType(ctx context.Context, conferenceKey, typeOfSession string) ([]*Session, error)
	// ListSessionsBySpeaker accepts a speaker key (email) or an exact speaker
	// name; names are resolved to a key first and fail with ErrNotFound.
	ListSessionsBySpeaker(ctx context.Context, speakerKeyOrName string) ([]*Session, error)
	// GetFeaturedSpeaker reads the advisory featured-speaker slot; absent is
	// not an error.
	GetFeaturedSpeaker(ctx context.Context) (*FeaturedSpeaker, error)
}

// WishlistService defines per-profile session wishlist membership.
type WishlistService interface {
	// AddToWishlist verifies the session exists inside the transaction that
	// writes the profile. Fails with ErrConflict when already wishlisted.
	AddToWishlist(ctx context.Context, caller Caller, sessionKey string) (bool, error)
	// RemoveFromWishlist removes if present (true), no-op otherwise (false).
	RemoveFromWishlist(ctx context.Context, caller Caller, sessionKey string) (bool, error)
	// ListWishlist resolves the profile's wishlist keys to sessions. Sessions
	// deleted since they were wishlisted are silently omitted; the wishlist
	// itself is not repaired on this read path.
	ListWishlist(ctx context.Context, caller Caller) ([]*Session, error)
}
