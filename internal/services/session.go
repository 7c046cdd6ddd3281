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

// featuredSpeakerThreshold is the session count at which a speaker becomes
// featured for a conference.
const featuredSpeakerThreshold = 2

type sessionService struct {
	store          domain.Store
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	cache          domain.DerivedCache
	logger         *slog.Logger
}

// NewSessionService creates a SessionService with the given store,
// repositories, and derived cache.
func NewSessionService(
	store domain.Store,
	conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	cache domain.DerivedCache,
	logger *slog.Logger,
) domain.SessionService {
	return &sessionService{
		store:          store,
		conferenceRepo: conferenceRepo,
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		cache:          cache,
		logger:         logger,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, caller domain.Caller, conferenceKey string, form *domain.SessionForm) (*domain.Session, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}
	if form.StartDate.IsZero() || form.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: session start and end dates are required", domain.ErrInvalidInput)
	}
	if form.EndDate.Before(form.StartDate) {
		return nil, fmt.Errorf("%w: session start date must be earlier than session end date", domain.ErrInvalidInput)
	}

	// Allocate the key before the transaction so a store-level retry re-puts
	// the same session rather than creating a duplicate.
	key := uuid.NewString()

	var session *domain.Session
	err := s.store.Transact(ctx, func(ctx context.Context) error {
		conference, err := s.conferenceRepo.GetByKey(ctx, conferenceKey)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
			}
			return fmt.Errorf("get conference: %w", err)
		}

		if form.StartDate.Before(conference.StartDate) || form.EndDate.After(conference.EndDate) {
			return fmt.Errorf("%w: session times cannot extend past conference times", domain.ErrConflict)
		}

		// Speakers live in their own entity groups, so this is a read-only
		// cross-group existence check: advisory, but still inside the
		// transaction that writes the session.
		for _, speakerKey := range form.SpeakerKeys {
			if _, err := s.speakerRepo.GetByEmail(ctx, speakerKey); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: speaker not found", domain.ErrNotFound)
				}
				return fmt.Errorf("get speaker: %w", err)
			}
		}

		now := time.Now()
		session = &domain.Session{
			Key:           key,
			ConferenceKey: conferenceKey,
			Name:          form.Name,
			StartDate:     form.StartDate,
			EndDate:       form.EndDate,
			StartHour:     form.StartDate.Hour(),
			EndHour:       form.EndDate.Hour(),
			TypeOfSession: form.TypeOfSession,
			Location:      form.Location,
			SpeakerKeys:   form.SpeakerKeys,
			Highlights:    form.Highlights,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.sessionRepo.Put(ctx, session); err != nil {
			return fmt.Errorf("put session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Featured-speaker detection is a post-commit side effect. It may run
	// zero or several times under retry, so it only republishes a view
	// computed from committed state.
	s.checkFeaturedSpeakers(ctx, conferenceKey, form.SpeakerKeys)

	return session, nil
}

// checkFeaturedSpeakers republishes the featured-speaker cache slot for every
// referenced speaker that now has two or more sessions in the conference.
// Cache and query failures are logged and swallowed: the view is advisory.
func (s *sessionService) checkFeaturedSpeakers(ctx context.Context, conferenceKey string, speakerKeys []string) {
	if len(speakerKeys) == 0 {
		return
	}
	conference, err := s.conferenceRepo.GetByKey(ctx, conferenceKey)
	if err != nil {
		s.logger.WarnContext(ctx, "featured speaker check: get conference", "conference_key", conferenceKey, "err", err)
		return
	}
	for _, speakerKey := range speakerKeys {
		sessions, err := s.sessionRepo.ListByConferenceAndSpeaker(ctx, conferenceKey, speakerKey)
		if err != nil {
			s.logger.WarnContext(ctx, "featured speaker check: list sessions", "speaker_key", speakerKey, "err", err)
			continue
		}
		if len(sessions) < featuredSpeakerThreshold {
			continue
		}
		speaker, err := s.speakerRepo.GetByEmail(ctx, speakerKey)
		if err != nil {
			s.logger.WarnContext(ctx, "featured speaker check: get speaker", "speaker_key", speakerKey, "err", err)
			continue
		}

		sessionNames := make([]string, len(sessions))
		for i, sess := range sessions {
			sessionNames[i] = sess.Name
		}
		featured := &domain.FeaturedSpeaker{
			SpeakerName:    speaker.Name,
			ConferenceName: conference.Name,
			SessionNames:   sessionNames,
		}
		// One process-wide slot: a later conference's featured speaker
		// overwrites an earlier one's. Last write wins.
		if err := s.cache.Put(ctx, domain.FeaturedSpeakerCacheKey, featured); err != nil {
			s.logger.WarnContext(ctx, "featured speaker check: cache put", "speaker_key", speakerKey, "err", err)
		}
	}
}

func (s *sessionService) ListSessions(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	sessions, err := s.sessionRepo.ListByConference(ctx, conferenceKey)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsByType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conferenceKey, typeOfSession)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsBySpeaker(ctx context.Context, speakerKeyOrName string) ([]*domain.Session, error) {
	speakerKey := speakerKeyOrName
	// Speaker keys are email addresses; anything else is treated as a
	// display name and resolved with an exact match, no fuzzy matching.
	if !strings.Contains(speakerKeyOrName, "@") {
		speakers, err := s.speakerRepo.ListByName(ctx, speakerKeyOrName)
		if err != nil {
			return nil, fmt.Errorf("list speakers by name: %w", err)
		}
		if len(speakers) == 0 {
			return nil, fmt.Errorf("%w: could not find speaker", domain.ErrNotFound)
		}
		speakerKey = speakers[0].Key()
	}

	sessions, err := s.sessionRepo.ListBySpeaker(ctx, speakerKey)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *sessionService) GetFeaturedSpeaker(ctx context.Context) (*domain.FeaturedSpeaker, error) {
	var featured domain.FeaturedSpeaker
	found, err := s.cache.Get(ctx, domain.FeaturedSpeakerCacheKey, &featured)
	if err != nil {
		s.logger.WarnContext(ctx, "featured speaker cache read failed", "err", err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	return &featured, nil
}
