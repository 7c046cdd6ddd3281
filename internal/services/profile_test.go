package services

import (
	"context"
	"errors"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}

	svc := &profileService{store: &fakeStore{}, profileRepo: newFakeProfileRepo()}
	_, err := svc.GetProfile(ctx, caller)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestProfileService_SaveProfile(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{ID: "u1", Email: "jane.doe@example.com"}

	t.Run("first save creates a profile with defaults", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := &profileService{store: &fakeStore{}, profileRepo: profileRepo}

		profile, err := svc.SaveProfile(ctx, caller, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "jane.doe", profile.DisplayName, "display name from email local part")
		assert.Equal(t, domain.TeeShirtSizeNotSpecified, profile.TeeShirtSize)
	})

	t.Run("subsequent save applies only the provided fields", func(t *testing.T) {
		profileRepo := newFakeProfileRepo()
		svc := &profileService{store: &fakeStore{}, profileRepo: profileRepo}

		_, err := svc.SaveProfile(ctx, caller, nil, nil)
		require.NoError(t, err, "initial save")

		size := domain.TeeShirtSizeXL
		profile, err := svc.SaveProfile(ctx, caller, nil, &size)
		require.NoError(t, err)
		assert.Equal(t, domain.TeeShirtSizeXL, profile.TeeShirtSize)
		assert.Equal(t, "jane.doe", profile.DisplayName, "display name unchanged")

		name := "Jane"
		profile, err = svc.SaveProfile(ctx, caller, &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Jane", profile.DisplayName)
		assert.Equal(t, domain.TeeShirtSizeXL, profile.TeeShirtSize, "size survives partial update")
	})

	t.Run("unknown tee shirt size", func(t *testing.T) {
		svc := &profileService{store: &fakeStore{}, profileRepo: newFakeProfileRepo()}
		size := domain.TeeShirtSize("GIGANTIC")
		_, err := svc.SaveProfile(ctx, caller, nil, &size)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "expected ErrInvalidInput, got %v", err)
	})
}

func TestSpeakerService_CreateSpeaker(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{ID: "u1", Email: "u1@example.com"}

	t.Run("email is normalized", func(t *testing.T) {
		speakerRepo := newFakeSpeakerRepo()
		svc := &speakerService{speakerRepo: speakerRepo}

		speaker, err := svc.CreateSpeaker(ctx, caller, &domain.SpeakerForm{
			Email: "  Rob@Example.COM ",
			Name:  "Rob",
		})
		require.NoError(t, err)
		assert.Equal(t, "rob@example.com", speaker.Email)
	})

	t.Run("missing email", func(t *testing.T) {
		svc := &speakerService{speakerRepo: newFakeSpeakerRepo()}
		_, err := svc.CreateSpeaker(ctx, caller, &domain.SpeakerForm{Name: "Rob"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "expected ErrInvalidInput, got %v", err)
	})

	t.Run("re-creating replaces the fields", func(t *testing.T) {
		speakerRepo := newFakeSpeakerRepo()
		svc := &speakerService{speakerRepo: speakerRepo}

		_, err := svc.CreateSpeaker(ctx, caller, &domain.SpeakerForm{Email: "rob@example.com", Name: "Rob"})
		require.NoError(t, err, "first create")
		_, err = svc.CreateSpeaker(ctx, caller, &domain.SpeakerForm{Email: "rob@example.com", Name: "Robert"})
		require.NoError(t, err, "second create")
		speaker, err := speakerRepo.GetByEmail(ctx, "rob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Robert", speaker.Name, "re-create replaces the name")
	})
}

func TestSpeakerService_QuerySpeakers(t *testing.T) {
	ctx := context.Background()
	speakerRepo := newFakeSpeakerRepo()
	svc := &speakerService{speakerRepo: speakerRepo}
	caller := domain.Caller{ID: "u1"}

	for _, form := range []*domain.SpeakerForm{
		{Email: "rob@example.com", Name: "Rob"},
		{Email: "ada@example.com", Name: "Ada"},
	} {
		_, err := svc.CreateSpeaker(ctx, caller, form)
		require.NoError(t, err, "seed")
	}

	t.Run("email filter wins", func(t *testing.T) {
		email := "rob@example.com"
		name := "Ada"
		speakers, err := svc.QuerySpeakers(ctx, domain.SpeakerQuery{Email: &email, Name: &name})
		require.NoError(t, err)
		require.Len(t, speakers, 1)
		assert.Equal(t, "Rob", speakers[0].Name, "email lookup beats name filter")
	})

	t.Run("unknown email is empty, not an error", func(t *testing.T) {
		email := "ghost@example.com"
		speakers, err := svc.QuerySpeakers(ctx, domain.SpeakerQuery{Email: &email})
		require.NoError(t, err)
		assert.Len(t, speakers, 0)
	})

	t.Run("no filters lists everything", func(t *testing.T) {
		speakers, err := svc.QuerySpeakers(ctx, domain.SpeakerQuery{})
		require.NoError(t, err)
		assert.Len(t, speakers, 2)
	})
}
