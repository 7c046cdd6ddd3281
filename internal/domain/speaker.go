package domain

import (
	"context"
	"time"
)

// Speaker represents a session speaker. Email is the natural key; sessions
// reference speakers by it. Speakers belong to no conference.
// swagger:model Speaker
type Speaker struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Expertise   []string  `json:"expertise"`
	About       string    `json:"about"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the speaker's websafe key. Sessions store this value.
func (s *Speaker) Key() string {
	return s.Email
}

// SpeakerForm carries the client-supplied fields for creating a speaker.
type SpeakerForm struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Expertise   []string `json:"expertise"`
	About       string   `json:"about"`
}

// SpeakerQuery filters speakers. Email wins over Name; both nil lists all.
type SpeakerQuery struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// SpeakerRepository defines the interface for speaker storage.
type SpeakerRepository interface {
	// Put creates or replaces the speaker keyed by Email.
	Put(ctx context.Context, speaker *Speaker) error
	// GetByEmail returns ErrNotFound when no speaker exists with the email.
	GetByEmail(ctx context.Context, email string) (*Speaker, error)
	// ListByName returns speakers whose name matches exactly.
	ListByName(ctx context.Context, name string) ([]*Speaker, error)
	// List returns all speakers.
	List(ctx context.Context) ([]*Speaker, error)
}

// SpeakerService defines speaker creation and queries.
type SpeakerService interface {
	CreateSpeaker(ctx context.Context, caller Caller, form *SpeakerForm) (*Speaker, error)
	QuerySpeakers(ctx context.Context, q SpeakerQuery) ([]*Speaker, error)
}
