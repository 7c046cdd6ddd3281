package domain

import "context"

// Well-known derived cache slots.
const (
	// AnnouncementCacheKey holds the advisory near-capacity announcement,
	// regenerated by the announcement refresh task.
	AnnouncementCacheKey = "announcements"

	// FeaturedSpeakerCacheKey is a single global slot, not a per-conference
	// map: a later conference's multiply-booked speaker overwrites an
	// earlier one's, last write wins. Switching to a per-conference key
	// would change what GET /featured-speaker returns.
	FeaturedSpeakerCacheKey = "featured_speaker"
)

// DerivedCache is a best-effort key/value view with no consistency guarantee
// relative to the system of record. A miss is never an error and cached
// values are safe to lose.
type DerivedCache interface {
	// Get unmarshals the cached value into dest and reports whether the key
	// was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Put stores the value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value any) error
}

// FeaturedSpeaker is the derived view published when a speaker has two or
// more sessions in one conference. Cache-only, never persisted.
// swagger:model FeaturedSpeaker
type FeaturedSpeaker struct {
	SpeakerName    string   `json:"speaker_name"`
	ConferenceName string   `json:"conference_name"`
	SessionNames   []string `json:"session_names"`
}

// Announcement is the derived near-capacity digest. Cache-only.
// swagger:model Announcement
type Announcement struct {
	Message string `json:"message"`
}
