package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newConferenceServiceForTest(conferenceRepo *fakeConferenceRepo, profileRepo *fakeProfileRepo, cache *fakeCache, tasks *fakeEnqueuer) *conferenceService {
	return &conferenceService{
		store:          &fakeStore{},
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
		cache:          cache,
		tasks:          tasks,
		logger:         testLogger(),
	}
}

func TestConferenceService_CreateConference(t *testing.T) {
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}

	t.Run("all seats start available and a confirmation email is queued", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		profileRepo := newFakeProfileRepo()
		tasks := &fakeEnqueuer{}
		svc := newConferenceServiceForTest(conferenceRepo, profileRepo, newFakeCache(), tasks)

		conference, err := svc.CreateConference(context.Background(), caller, &domain.ConferenceForm{
			Name:         "GopherCon",
			City:         "Denver",
			MaxAttendees: 100,
		})
		require.NoError(t, err)
		require.NotEmpty(t, conference.Key)
		assert.Equal(t, "u1", conference.OrganizerID)
		assert.Equal(t, 100, conference.SeatsAvailable, "all seats start available")
		require.Len(t, tasks.tasks, 1, "one confirmation email queued")
		assert.Equal(t, "u1@example.com", tasks.tasks[0].Email)

		// A default profile is created for a first-time organizer.
		profile, err := profileRepo.GetByUserID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", profile.DisplayName, "display name derived from email local part")
	})

	t.Run("enqueue failure does not fail the create", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		tasks := &fakeEnqueuer{err: errors.New("queue full")}
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), tasks)

		conference, err := svc.CreateConference(context.Background(), caller, &domain.ConferenceForm{
			Name:         "GopherCon",
			MaxAttendees: 10,
		})
		require.NoError(t, err)
		_, err = conferenceRepo.GetByKey(context.Background(), conference.Key)
		require.NoError(t, err, "conference persisted despite enqueue failure")
	})

	t.Run("validation", func(t *testing.T) {
		svc := newConferenceServiceForTest(newFakeConferenceRepo(), newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})
		start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

		tests := []struct {
			name string
			form domain.ConferenceForm
		}{
			{"empty name", domain.ConferenceForm{MaxAttendees: 10}},
			{"zero max attendees", domain.ConferenceForm{Name: "X"}},
			{"end before start", domain.ConferenceForm{
				Name: "X", MaxAttendees: 10,
				StartDate: start, EndDate: start.AddDate(0, 0, -1),
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateConference(context.Background(), caller, &tt.form)
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidInput), "expected ErrInvalidInput, got %v", err)
			})
		}
	})
}

func TestConferenceService_UpdateConference(t *testing.T) {
	owner := domain.Caller{ID: "organizer", Email: "org@example.com"}
	ctx := context.Background()

	t.Run("only the organizer can update", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		seedConference(t, conferenceRepo, "c1", 10, 10)
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})

		_, err := svc.UpdateConference(ctx, domain.Caller{ID: "intruder"}, "c1", &domain.ConferenceForm{Name: "Stolen"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrForbidden), "expected ErrForbidden, got %v", err)
	})

	t.Run("unknown conference", func(t *testing.T) {
		svc := newConferenceServiceForTest(newFakeConferenceRepo(), newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})
		_, err := svc.UpdateConference(ctx, owner, "missing", &domain.ConferenceForm{Name: "X"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("capacity change preserves booked seats", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		// 10 max, 6 available: 4 seats booked.
		seedConference(t, conferenceRepo, "c1", 10, 6)
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})

		conference, err := svc.UpdateConference(ctx, owner, "c1", &domain.ConferenceForm{MaxAttendees: 20})
		require.NoError(t, err)
		assert.Equal(t, 20, conference.MaxAttendees)
		assert.Equal(t, 16, conference.SeatsAvailable, "4 booked seats carried over")
	})

	t.Run("cannot reduce capacity below booked seats", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		seedConference(t, conferenceRepo, "c1", 10, 6)
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})

		_, err := svc.UpdateConference(ctx, owner, "c1", &domain.ConferenceForm{MaxAttendees: 3})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict), "expected ErrConflict, got %v", err)
		// Nothing was persisted.
		conference, err := conferenceRepo.GetByKey(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 10, conference.MaxAttendees, "conference unchanged after failed update")
		assert.Equal(t, 6, conference.SeatsAvailable, "conference unchanged after failed update")
	})

	t.Run("zero-value fields are left unchanged", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		seedConference(t, conferenceRepo, "c1", 10, 10)
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})

		conference, err := svc.UpdateConference(ctx, owner, "c1", &domain.ConferenceForm{Description: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", conference.Name)
		assert.Equal(t, "Denver", conference.City)
		assert.Equal(t, "updated", conference.Description)
	})
}

func TestConferenceService_GetConferencesToAttend(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}

	t.Run("no profile", func(t *testing.T) {
		svc := newConferenceServiceForTest(newFakeConferenceRepo(), newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})
		_, err := svc.GetConferencesToAttend(ctx, caller)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("deleted conferences are omitted", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		profileRepo := newFakeProfileRepo()
		seedConference(t, conferenceRepo, "c1", 10, 10)

		profile := domain.NewProfile("u1", "", "u1@example.com", domain.TeeShirtSizeNotSpecified, time.Now())
		profile.AddConferenceToAttend("c1")
		profile.AddConferenceToAttend("deleted")
		require.NoError(t, profileRepo.Put(ctx, profile), "seed profile")

		svc := newConferenceServiceForTest(conferenceRepo, profileRepo, newFakeCache(), &fakeEnqueuer{})
		conferences, err := svc.GetConferencesToAttend(ctx, caller)
		require.NoError(t, err)
		require.Len(t, conferences, 1)
		assert.Equal(t, "c1", conferences[0].Key)
	})
}

func TestConferenceService_Announcement(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh publishes a digest of near-capacity conferences", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		seedConference(t, conferenceRepo, "c1", 10, 10)
		now := time.Now()
		for _, c := range []*domain.Conference{
			{Key: "c2", OrganizerID: "o", Name: "AlmostFull", MaxAttendees: 10, SeatsAvailable: 2, CreatedAt: now, UpdatedAt: now},
			{Key: "c3", OrganizerID: "o", Name: "NearlyGone", MaxAttendees: 10, SeatsAvailable: 4, CreatedAt: now, UpdatedAt: now},
		} {
			require.NoError(t, conferenceRepo.Put(ctx, c), "seed")
		}
		cache := newFakeCache()
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), cache, &fakeEnqueuer{})

		announcement, err := svc.RefreshAnnouncement(ctx)
		require.NoError(t, err)
		require.NotNil(t, announcement)
		want := "Last chance to attend! The following conferences are nearly sold out: AlmostFull, NearlyGone"
		assert.Equal(t, want, announcement.Message)

		got, err := svc.GetAnnouncement(ctx)
		require.NoError(t, err)
		require.NotNil(t, got, "announcement readable from cache")
		assert.Equal(t, want, got.Message)
	})

	t.Run("no near-capacity conferences yields no announcement", func(t *testing.T) {
		conferenceRepo := newFakeConferenceRepo()
		seedConference(t, conferenceRepo, "c1", 10, 10)
		svc := newConferenceServiceForTest(conferenceRepo, newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})

		announcement, err := svc.RefreshAnnouncement(ctx)
		require.NoError(t, err)
		assert.Nil(t, announcement)
	})

	t.Run("cache miss and cache failure both read as no announcement", func(t *testing.T) {
		svc := newConferenceServiceForTest(newFakeConferenceRepo(), newFakeProfileRepo(), newFakeCache(), &fakeEnqueuer{})
		got, err := svc.GetAnnouncement(ctx)
		require.NoError(t, err)
		assert.Nil(t, got, "miss is not an error")

		broken := newFakeCache()
		broken.getErr = errors.New("cache down")
		svc = newConferenceServiceForTest(newFakeConferenceRepo(), newFakeProfileRepo(), broken, &fakeEnqueuer{})
		got, err = svc.GetAnnouncement(ctx)
		require.NoError(t, err)
		assert.Nil(t, got, "cache failure reads as absent")
	})
}
