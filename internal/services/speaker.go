package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type speakerService struct {
	speakerRepo domain.SpeakerRepository
}

// NewSpeakerService creates a SpeakerService with the given repository.
func NewSpeakerService(speakerRepo domain.SpeakerRepository) domain.SpeakerService {
	return &speakerService{speakerRepo: speakerRepo}
}

func (s *speakerService) CreateSpeaker(ctx context.Context, caller domain.Caller, form *domain.SpeakerForm) (*domain.Speaker, error) {
	email := strings.TrimSpace(strings.ToLower(form.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: speaker email is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	speaker := &domain.Speaker{
		Email:       email,
		Name:        form.Name,
		DisplayName: form.DisplayName,
		Expertise:   form.Expertise,
		About:       form.About,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.speakerRepo.Put(ctx, speaker); err != nil {
		return nil, fmt.Errorf("put speaker: %w", err)
	}
	return speaker, nil
}

func (s *speakerService) QuerySpeakers(ctx context.Context, q domain.SpeakerQuery) ([]*domain.Speaker, error) {
	// Email is the speaker's id, so it is the best filter when present.
	if q.Email != nil && *q.Email != "" {
		speaker, err := s.speakerRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(*q.Email)))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []*domain.Speaker{}, nil
			}
			return nil, fmt.Errorf("get speaker: %w", err)
		}
		return []*domain.Speaker{speaker}, nil
	}

	if q.Name != nil && *q.Name != "" {
		speakers, err := s.speakerRepo.ListByName(ctx, *q.Name)
		if err != nil {
			return nil, fmt.Errorf("list speakers by name: %w", err)
		}
		if speakers == nil {
			speakers = []*domain.Speaker{}
		}
		return speakers, nil
	}

	speakers, err := s.speakerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	if speakers == nil {
		speakers = []*domain.Speaker{}
	}
	return speakers, nil
}
