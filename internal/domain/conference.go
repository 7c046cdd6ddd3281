package domain

import (
	"context"
	"time"
)

// Conference represents a conference organized by a profile. Key is an opaque
// websafe identifier allocated before the creating transaction opens, so a
// retried transaction re-puts the same entity instead of duplicating it.
// swagger:model Conference
type Conference struct {
	Key            string    `json:"key"`
	OrganizerID    string    `json:"organizer_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Topics         []string  `json:"topics"`
	City           string    `json:"city"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	MaxAttendees   int       `json:"max_attendees"`
	SeatsAvailable int       `json:"seats_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BookedSeats returns the number of seats already taken.
func (c *Conference) BookedSeats() int {
	return c.MaxAttendees - c.SeatsAvailable
}

// BookSeat takes one seat. The caller must have checked SeatsAvailable > 0
// inside the same transaction.
func (c *Conference) BookSeat() {
	c.SeatsAvailable--
}

// GiveBackSeat releases one seat, never exceeding MaxAttendees.
func (c *Conference) GiveBackSeat() {
	if c.SeatsAvailable < c.MaxAttendees {
		c.SeatsAvailable++
	}
}

// ConferenceForm carries the client-supplied fields for creating or updating
// a conference. On update, zero values mean "leave unchanged" for strings and
// times; MaxAttendees is applied only when > 0.
type ConferenceForm struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Topics       []string  `json:"topics"`
	City         string    `json:"city"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	MaxAttendees int       `json:"max_attendees"`
}

// ConferenceQuery holds equality/range filters for querying conferences.
// Nil fields are not applied.
type ConferenceQuery struct {
	City         *string    `json:"city"`
	Topic        *string    `json:"topic"`
	StartsAfter  *time.Time `json:"starts_after"`
	StartsBefore *time.Time `json:"starts_before"`
	MinSeats     *int       `json:"min_seats"`
}

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	// Put creates or replaces the conference keyed by Key.
	Put(ctx context.Context, conference *Conference) error
	// GetByKey returns ErrNotFound when no conference exists with the key.
	GetByKey(ctx context.Context, key string) (*Conference, error)
	// GetByKeys batch-fetches conferences, preserving the order of keys and
	// silently omitting keys that no longer resolve.
	GetByKeys(ctx context.Context, keys []string) ([]*Conference, error)
	// ListByOrganizer returns the organizer's conferences ordered by name.
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Conference, error)
	// Query returns conferences matching the filters plus the total count.
	Query(ctx context.Context, q ConferenceQuery, params PaginationParams) ([]*Conference, int, error)
	// ListNearCapacity returns conferences with 0 < seats_available <= maxSeats.
	ListNearCapacity(ctx context.Context, maxSeats int) ([]*Conference, error)
}

// ConferenceService defines conference lifecycle and query operations.
type ConferenceService interface {
	CreateConference(ctx context.Context, caller Caller, form *ConferenceForm) (*Conference, error)
	UpdateConference(ctx context.Context, caller Caller, key string, form *ConferenceForm) (*Conference, error)
	GetConference(ctx context.Context, key string) (*Conference, error)
	QueryConferences(ctx context.Context, q ConferenceQuery, params PaginationParams) ([]*Conference, int, error)
	GetConferencesCreated(ctx context.Context, caller Caller) ([]*Conference, error)
	GetConferencesToAttend(ctx context.Context, caller Caller) ([]*Conference, error)
	// GetAnnouncement reads the advisory announcement slot; absent is not an error.
	GetAnnouncement(ctx context.Context) (*Announcement, error)
	// RefreshAnnouncement rebuilds the announcement from near-capacity
	// conferences and publishes it. Invoked by a batch task, not user traffic.
	RefreshAnnouncement(ctx context.Context) (*Announcement, error)
}

// RegistrationService defines seat booking and registration-set membership.
type RegistrationService interface {
	// Register books one seat and adds the conference to the caller's attend
	// list, all inside one transaction.
	Register(ctx context.Context, caller Caller, conferenceKey string) (bool, error)
	// Unregister releases the seat if the caller was registered. Returns
	// false (not an error) when the caller was not registered.
	Unregister(ctx context.Context, caller Caller, conferenceKey string) (bool, error)
}
