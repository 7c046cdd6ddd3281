package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

// TeeShirtSize is a profile's tee shirt size preference.
type TeeShirtSize string

// Valid tee shirt sizes.
const (
	TeeShirtSizeNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtSizeXS           TeeShirtSize = "XS"
	TeeShirtSizeS            TeeShirtSize = "S"
	TeeShirtSizeM            TeeShirtSize = "M"
	TeeShirtSizeL            TeeShirtSize = "L"
	TeeShirtSizeXL           TeeShirtSize = "XL"
	TeeShirtSizeXXL          TeeShirtSize = "XXL"
	TeeShirtSizeXXXL         TeeShirtSize = "XXXL"
)

// ValidTeeShirtSize reports whether s is one of the known sizes.
func ValidTeeShirtSize(s TeeShirtSize) bool {
	switch s {
	case TeeShirtSizeNotSpecified, TeeShirtSizeXS, TeeShirtSizeS, TeeShirtSizeM,
		TeeShirtSizeL, TeeShirtSizeXL, TeeShirtSizeXXL, TeeShirtSizeXXXL:
		return true
	}
	return false
}

// Caller is the authenticated identity attached to a request. Identity
// resolution itself lives in the delivery layer; services only see this.
type Caller struct {
	ID    string
	Email string
}

// Profile represents a user profile. A profile is created lazily the first
// time an operation needs it (registration, wishlist, save).
// swagger:model Profile
type Profile struct {
	UserID                 string       `json:"user_id"`
	DisplayName            string       `json:"display_name"`
	MainEmail              string       `json:"main_email"`
	TeeShirtSize           TeeShirtSize `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string     `json:"conference_keys_to_attend"`
	SessionKeysInWishlist  []string     `json:"session_keys_in_wishlist"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// NewProfile returns a new Profile with the given fields.
func NewProfile(userID, displayName, mainEmail string, size TeeShirtSize, createdAt time.Time) *Profile {
	if displayName == "" {
		displayName = DefaultDisplayName(mainEmail)
	}
	if size == "" {
		size = TeeShirtSizeNotSpecified
	}
	return &Profile{
		UserID:       userID,
		DisplayName:  displayName,
		MainEmail:    mainEmail,
		TeeShirtSize: size,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// DefaultDisplayName derives a display name from the local part of an email address.
func DefaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// Update applies the non-nil fields of a profile save request.
func (p *Profile) Update(displayName *string, size *TeeShirtSize) {
	if displayName != nil && *displayName != "" {
		p.DisplayName = *displayName
	}
	if size != nil && *size != "" {
		p.TeeShirtSize = *size
	}
}

// IsAttending reports whether the profile is registered for the conference.
func (p *Profile) IsAttending(conferenceKey string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, conferenceKey)
}

// AddConferenceToAttend appends the conference key to the attend list.
func (p *Profile) AddConferenceToAttend(conferenceKey string) {
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, conferenceKey)
}

// RemoveConferenceToAttend removes the conference key from the attend list.
// Returns false if the key was not present.
func (p *Profile) RemoveConferenceToAttend(conferenceKey string) bool {
	i := slices.Index(p.ConferenceKeysToAttend, conferenceKey)
	if i < 0 {
		return false
	}
	p.ConferenceKeysToAttend = slices.Delete(p.ConferenceKeysToAttend, i, i+1)
	return true
}

// HasSessionInWishlist reports whether the session key is on the wishlist.
func (p *Profile) HasSessionInWishlist(sessionKey string) bool {
	return slices.Contains(p.SessionKeysInWishlist, sessionKey)
}

// AddSessionToWishlist appends the session key to the wishlist.
func (p *Profile) AddSessionToWishlist(sessionKey string) {
	p.SessionKeysInWishlist = append(p.SessionKeysInWishlist, sessionKey)
}

// RemoveSessionFromWishlist removes the session key from the wishlist.
// Returns false if the key was not present.
func (p *Profile) RemoveSessionFromWishlist(sessionKey string) bool {
	i := slices.Index(p.SessionKeysInWishlist, sessionKey)
	if i < 0 {
		return false
	}
	p.SessionKeysInWishlist = slices.Delete(p.SessionKeysInWishlist, i, i+1)
	return true
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	// GetByUserID returns ErrNotFound when no profile exists for the user.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetByEmail returns ErrNotFound when no profile has the given main email.
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	// Put creates or replaces the profile keyed by UserID.
	Put(ctx context.Context, profile *Profile) error
}

// ProfileService defines the business logic for user profiles.
type ProfileService interface {
	// GetProfile returns the caller's profile, or ErrNotFound if it was never created.
	GetProfile(ctx context.Context, caller Caller) (*Profile, error)
	// SaveProfile creates the caller's profile with defaults if absent,
	// otherwise applies the non-nil fields, and returns the saved profile.
	SaveProfile(ctx context.Context, caller Caller, displayName *string, teeShirtSize *TeeShirtSize) (*Profile, error)
}

// LoginCodeRepository defines the interface for one-time login code storage.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string) (consumed bool, err error)
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated caller.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated caller.
type TokenVerifier interface {
	Verify(token string) (Caller, error)
}

// AuthService defines the passwordless login flow that resolves callers.
type AuthService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (token string, profile *Profile, err error)
}
