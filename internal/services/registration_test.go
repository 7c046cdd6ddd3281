package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConference(t *testing.T, repo *fakeConferenceRepo, key string, maxAttendees, seatsAvailable int) {
	t.Helper()
	now := time.Now()
	err := repo.Put(context.Background(), &domain.Conference{
		Key:            key,
		OrganizerID:    "organizer",
		Name:           "GopherCon",
		City:           "Denver",
		MaxAttendees:   maxAttendees,
		SeatsAvailable: seatsAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err, "seed conference")
}

func TestRegistrationService_Register(t *testing.T) {
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}

	tests := []struct {
		name          string
		seed          func(t *testing.T, conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo)
		conferenceKey string
		wantErr       error
	}{
		{
			name: "success with available seats",
			seed: func(t *testing.T, conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo) {
				seedConference(t, conferenceRepo, "c1", 10, 10)
			},
			conferenceKey: "c1",
		},
		{
			name:          "conference not found",
			seed:          func(t *testing.T, conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo) {},
			conferenceKey: "missing",
			wantErr:       domain.ErrNotFound,
		},
		{
			name: "already registered",
			seed: func(t *testing.T, conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo) {
				seedConference(t, conferenceRepo, "c1", 10, 9)
				profile := domain.NewProfile("u1", "", "u1@example.com", domain.TeeShirtSizeNotSpecified, time.Now())
				profile.AddConferenceToAttend("c1")
				require.NoError(t, profileRepo.Put(context.Background(), profile), "seed profile")
			},
			conferenceKey: "c1",
			wantErr:       domain.ErrConflict,
		},
		{
			name: "no seats available",
			seed: func(t *testing.T, conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo) {
				seedConference(t, conferenceRepo, "c1", 10, 0)
			},
			conferenceKey: "c1",
			wantErr:       domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conferenceRepo := newFakeConferenceRepo()
			profileRepo := newFakeProfileRepo()
			tt.seed(t, conferenceRepo, profileRepo)

			svc := &registrationService{
				store:          &fakeStore{},
				profileRepo:    profileRepo,
				conferenceRepo: conferenceRepo,
			}

			registered, err := svc.Register(context.Background(), caller, tt.conferenceKey)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, registered)

			conference, err := conferenceRepo.GetByKey(context.Background(), tt.conferenceKey)
			require.NoError(t, err)
			assert.Equal(t, 9, conference.SeatsAvailable, "one seat booked")
			profile, err := profileRepo.GetByUserID(context.Background(), caller.ID)
			require.NoError(t, err)
			assert.True(t, profile.IsAttending(tt.conferenceKey), "conference on the attend list")
		})
	}
}

func TestRegistrationService_RegisterUnregisterRoundTrip(t *testing.T) {
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}
	conferenceRepo := newFakeConferenceRepo()
	profileRepo := newFakeProfileRepo()
	seedConference(t, conferenceRepo, "c1", 5, 5)

	svc := &registrationService{
		store:          &fakeStore{},
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
	}
	ctx := context.Background()

	_, err := svc.Register(ctx, caller, "c1")
	require.NoError(t, err)

	removed, err := svc.Unregister(ctx, caller, "c1")
	require.NoError(t, err)
	assert.True(t, removed)
	conference, err := conferenceRepo.GetByKey(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, conference.SeatsAvailable, "seat returned")

	// Second unregister is an idempotent no-op.
	removed, err = svc.Unregister(ctx, caller, "c1")
	require.NoError(t, err)
	assert.False(t, removed, "second unregister is a no-op")
	conference, err = conferenceRepo.GetByKey(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, conference.SeatsAvailable, "seat count unchanged by no-op unregister")
}

func TestRegistrationService_ConcurrentLastSeat(t *testing.T) {
	conferenceRepo := newFakeConferenceRepo()
	profileRepo := newFakeProfileRepo()
	seedConference(t, conferenceRepo, "c1", 10, 1)

	svc := &registrationService{
		store:          &fakeStore{},
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
	}

	callers := []domain.Caller{
		{ID: "u1", Email: "u1@example.com"},
		{ID: "u2", Email: "u2@example.com"},
	}
	results := make([]error, len(callers))
	var wg sync.WaitGroup
	for i, caller := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Register(context.Background(), caller, "c1")
		}()
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one registration wins the last seat")
	assert.Equal(t, 1, conflicts, "the loser gets a conflict")

	conference, err := conferenceRepo.GetByKey(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, conference.SeatsAvailable)
}
