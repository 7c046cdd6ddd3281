package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	store       domain.Store
	profileRepo domain.ProfileRepository
}

// NewProfileService creates a ProfileService with the given store and repository.
func NewProfileService(store domain.Store, profileRepo domain.ProfileRepository) domain.ProfileService {
	return &profileService{store: store, profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, caller domain.Caller) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile doesn't exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) SaveProfile(ctx context.Context, caller domain.Caller, displayName *string, teeShirtSize *domain.TeeShirtSize) (*domain.Profile, error) {
	if teeShirtSize != nil && !domain.ValidTeeShirtSize(*teeShirtSize) {
		return nil, fmt.Errorf("%w: unknown tee shirt size: %s", domain.ErrInvalidInput, *teeShirtSize)
	}

	var profile *domain.Profile
	// Transactional so two concurrent saves cannot interleave read-modify-write.
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		var err error
		profile, err = loadOrNewProfile(ctx, s.profileRepo, caller)
		if err != nil {
			return err
		}
		profile.Update(displayName, teeShirtSize)
		profile.UpdatedAt = time.Now()
		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
