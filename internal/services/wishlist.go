package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	store       domain.Store
	profileRepo domain.ProfileRepository
	sessionRepo domain.SessionRepository
}

// NewWishlistService creates a WishlistService with the given store and
// repositories.
func NewWishlistService(
	store domain.Store,
	profileRepo domain.ProfileRepository,
	sessionRepo domain.SessionRepository,
) domain.WishlistService {
	return &wishlistService{
		store:       store,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *wishlistService) AddToWishlist(ctx context.Context, caller domain.Caller, sessionKey string) (bool, error) {
	// The session lives in a different entity group than the profile, so the
	// existence check is advisory: the session could be deleted right after
	// we read it. The transaction still keeps the check and the profile
	// write from interleaving with writes to the same profile.
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		profile, err := loadOrNewProfile(ctx, s.profileRepo, caller)
		if err != nil {
			return err
		}

		if _, err := s.sessionRepo.GetByKey(ctx, sessionKey); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: session does not exist", domain.ErrNotFound)
			}
			return fmt.Errorf("get session: %w", err)
		}

		if profile.HasSessionInWishlist(sessionKey) {
			return fmt.Errorf("%w: you have already added this session to your wishlist", domain.ErrConflict)
		}

		profile.AddSessionToWishlist(sessionKey)
		profile.UpdatedAt = time.Now()
		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *wishlistService) RemoveFromWishlist(ctx context.Context, caller domain.Caller, sessionKey string) (bool, error) {
	var removed bool
	// Only the profile's own entity group is touched, but the remove still
	// runs transactionally so it cannot interleave with a concurrent add or
	// remove on the same profile.
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		removed = false
		profile, err := s.profileRepo.GetByUserID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: profile doesn't exist", domain.ErrNotFound)
			}
			return fmt.Errorf("get profile: %w", err)
		}

		if !profile.RemoveSessionFromWishlist(sessionKey) {
			return nil
		}
		profile.UpdatedAt = time.Now()
		if err := s.profileRepo.Put(ctx, profile); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *wishlistService) ListWishlist(ctx context.Context, caller domain.Caller) ([]*domain.Session, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile doesn't exist", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if len(profile.SessionKeysInWishlist) == 0 {
		return []*domain.Session{}, nil
	}

	// Wishlist keys whose sessions were deleted are dropped by the batch
	// fetch; the key list itself is not repaired here.
	sessions, err := s.sessionRepo.GetByKeys(ctx, profile.SessionKeysInWishlist)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}
