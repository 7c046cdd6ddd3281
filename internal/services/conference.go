package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"conferencecentral/internal/domain"
)

// nearCapacitySeats is the seats-available threshold below which a conference
// is mentioned in the announcement digest.
const nearCapacitySeats = 5

type conferenceService struct {
	store          domain.Store
	profileRepo    domain.ProfileRepository
	conferenceRepo domain.ConferenceRepository
	cache          domain.DerivedCache
	tasks          domain.TaskEnqueuer
	logger         *slog.Logger
}

// NewConferenceService creates a ConferenceService with the given store,
// repositories, derived cache, and task enqueuer.
func NewConferenceService(
	store domain.Store,
	profileRepo domain.ProfileRepository,
	conferenceRepo domain.ConferenceRepository,
	cache domain.DerivedCache,
	tasks domain.TaskEnqueuer,
	logger *slog.Logger,
) domain.ConferenceService {
	return &conferenceService{
		store:          store,
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
		cache:          cache,
		tasks:          tasks,
		logger:         logger,
	}
}

func validateConferenceForm(form *domain.ConferenceForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: conference name is required", domain.ErrInvalidInput)
	}
	if form.MaxAttendees <= 0 {
		return fmt.Errorf("%w: max attendees must be positive", domain.ErrInvalidInput)
	}
	if !form.StartDate.IsZero() && !form.EndDate.IsZero() && form.EndDate.Before(form.StartDate) {
		return fmt.Errorf("%w: conference start date must be earlier than end date", domain.ErrInvalidInput)
	}
	return nil
}

func (s *conferenceService) CreateConference(ctx context.Context, caller domain.Caller, form *domain.ConferenceForm) (*domain.Conference, error) {
	if err := validateConferenceForm(form); err != nil {
		return nil, err
	}

	// Allocate the key first, so a retried transaction re-puts the same
	// conference instead of creating a duplicate.
	key := uuid.NewString()

	var conference *domain.Conference
	var profile *domain.Profile
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		var err error
		profile, err = loadOrNewProfile(ctx, s.profileRepo, caller)
		if err != nil {
			return err
		}

		now := time.Now()
		conference = &domain.Conference{
			Key:            key,
			OrganizerID:    caller.ID,
			Name:           form.Name,
			Description:    form.Description,
			Topics:         form.Topics,
			City:           form.City,
			StartDate:      form.StartDate,
			EndDate:        form.EndDate,
			MaxAttendees:   form.MaxAttendees,
			SeatsAvailable: form.MaxAttendees,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		profile.UpdatedAt = now

		if err := s.conferenceRepo.Put(ctx, conference); err != nil {
			return fmt.Errorf("put conference: %w", err)
		}
		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The confirmation email is out-of-band: enqueue failures are logged,
	// never surfaced, and the conference stays created.
	task := domain.ConfirmationEmailData{
		Email:          profile.MainEmail,
		ConferenceInfo: fmt.Sprintf("%s in %s", conference.Name, conference.City),
	}
	if err := s.tasks.EnqueueConfirmationEmail(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "enqueue confirmation email", "conference_key", key, "err", err)
	}

	return conference, nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, caller domain.Caller, key string, form *domain.ConferenceForm) (*domain.Conference, error) {
	var conference *domain.Conference
	// A transaction is needed because the number of already-booked seats must
	// be preserved across the edit.
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		var err error
		conference, err = s.conferenceRepo.GetByKey(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, key)
			}
			return fmt.Errorf("get conference: %w", err)
		}
		if conference.OrganizerID != caller.ID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}

		if form.Name != "" {
			conference.Name = form.Name
		}
		if form.Description != "" {
			conference.Description = form.Description
		}
		if form.Topics != nil {
			conference.Topics = form.Topics
		}
		if form.City != "" {
			conference.City = form.City
		}
		if !form.StartDate.IsZero() {
			conference.StartDate = form.StartDate
		}
		if !form.EndDate.IsZero() {
			conference.EndDate = form.EndDate
		}
		if !conference.StartDate.IsZero() && !conference.EndDate.IsZero() &&
			conference.EndDate.Before(conference.StartDate) {
			return fmt.Errorf("%w: conference start date must be earlier than end date", domain.ErrInvalidInput)
		}

		// Seat capacity changes must not clobber the seats already booked.
		if form.MaxAttendees > 0 && form.MaxAttendees != conference.MaxAttendees {
			booked := conference.BookedSeats()
			if form.MaxAttendees < booked {
				return fmt.Errorf("%w: cannot reduce capacity below %d already booked seats", domain.ErrConflict, booked)
			}
			conference.MaxAttendees = form.MaxAttendees
			conference.SeatsAvailable = form.MaxAttendees - booked
		}

		conference.UpdatedAt = time.Now()
		if err := s.conferenceRepo.Put(ctx, conference); err != nil {
			return fmt.Errorf("put conference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conference, nil
}

func (s *conferenceService) GetConference(ctx context.Context, key string) (*domain.Conference, error) {
	conference, err := s.conferenceRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conference, nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, q domain.ConferenceQuery, params domain.PaginationParams) ([]*domain.Conference, int, error) {
	conferences, total, err := s.conferenceRepo.Query(ctx, q, params)
	if err != nil {
		return nil, 0, fmt.Errorf("query conferences: %w", err)
	}
	if conferences == nil {
		conferences = []*domain.Conference{}
	}
	return conferences, total, nil
}

func (s *conferenceService) GetConferencesCreated(ctx context.Context, caller domain.Caller) ([]*domain.Conference, error) {
	conferences, err := s.conferenceRepo.ListByOrganizer(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	if conferences == nil {
		conferences = []*domain.Conference{}
	}
	return conferences, nil
}

func (s *conferenceService) GetConferencesToAttend(ctx context.Context, caller domain.Caller) ([]*domain.Conference, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile doesn't exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(profile.ConferenceKeysToAttend) == 0 {
		return []*domain.Conference{}, nil
	}
	conferences, err := s.conferenceRepo.GetByKeys(ctx, profile.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	if conferences == nil {
		conferences = []*domain.Conference{}
	}
	return conferences, nil
}

func (s *conferenceService) GetAnnouncement(ctx context.Context) (*domain.Announcement, error) {
	var announcement domain.Announcement
	found, err := s.cache.Get(ctx, domain.AnnouncementCacheKey, &announcement)
	if err != nil {
		// The cache is advisory; a broken cache reads as a miss.
		s.logger.WarnContext(ctx, "announcement cache read failed", "err", err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	return &announcement, nil
}

func (s *conferenceService) RefreshAnnouncement(ctx context.Context) (*domain.Announcement, error) {
	conferences, err := s.conferenceRepo.ListNearCapacity(ctx, nearCapacitySeats)
	if err != nil {
		return nil, fmt.Errorf("list near-capacity conferences: %w", err)
	}
	if len(conferences) == 0 {
		return nil, nil
	}

	names := make([]string, len(conferences))
	for i, c := range conferences {
		names[i] = c.Name
	}
	announcement := &domain.Announcement{
		Message: "Last chance to attend! The following conferences are nearly sold out: " +
			strings.Join(names, ", "),
	}
	if err := s.cache.Put(ctx, domain.AnnouncementCacheKey, announcement); err != nil {
		return nil, fmt.Errorf("put announcement: %w", err)
	}
	return announcement, nil
}
