package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type registrationService struct {
	store          domain.Store
	profileRepo    domain.ProfileRepository
	conferenceRepo domain.ConferenceRepository
}

// NewRegistrationService creates a RegistrationService with the given store
// and repositories.
func NewRegistrationService(
	store domain.Store,
	profileRepo domain.ProfileRepository,
	conferenceRepo domain.ConferenceRepository,
) domain.RegistrationService {
	return &registrationService{
		store:          store,
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
	}
}

// loadOrNewProfile fetches the caller's profile, creating a default one in
// memory when absent. Callers persist it as part of their own transaction.
func loadOrNewProfile(ctx context.Context, repo domain.ProfileRepository, caller domain.Caller) (*domain.Profile, error) {
	profile, err := repo.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewProfile(caller.ID, "", caller.Email, domain.TeeShirtSizeNotSpecified, time.Now()), nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *registrationService) Register(ctx context.Context, caller domain.Caller, conferenceKey string) (bool, error) {
	// The existence check, the duplicate check, the seat check, and both
	// writes share one transaction to close the race between concurrent
	// registrants competing for the last seat.
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		conference, err := s.conferenceRepo.GetByKey(ctx, conferenceKey)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
			}
			return fmt.Errorf("get conference: %w", err)
		}

		profile, err := loadOrNewProfile(ctx, s.profileRepo, caller)
		if err != nil {
			return err
		}

		if profile.IsAttending(conferenceKey) {
			return fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
		}
		if conference.SeatsAvailable <= 0 {
			return fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
		}

		profile.AddConferenceToAttend(conferenceKey)
		conference.BookSeat()
		now := time.Now()
		profile.UpdatedAt = now
		conference.UpdatedAt = now

		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		if err := s.conferenceRepo.Put(ctx, conference); err != nil {
			return fmt.Errorf("put conference: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *registrationService) Unregister(ctx context.Context, caller domain.Caller, conferenceKey string) (bool, error) {
	var removed bool
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		removed = false
		conference, err := s.conferenceRepo.GetByKey(ctx, conferenceKey)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
			}
			return fmt.Errorf("get conference: %w", err)
		}

		profile, err := loadOrNewProfile(ctx, s.profileRepo, caller)
		if err != nil {
			return err
		}

		// Not registered: idempotent no-op, not an error.
		if !profile.RemoveConferenceToAttend(conferenceKey) {
			return nil
		}

		conference.GiveBackSeat()
		now := time.Now()
		profile.UpdatedAt = now
		conference.UpdatedAt = now

		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		if err := s.conferenceRepo.Put(ctx, conference); err != nil {
			return fmt.Errorf("put conference: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
