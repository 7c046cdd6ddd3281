package services

import (
	"context"
	"slices"
	"sync"

	"conferencecentral/internal/domain"
)

// fakeStore serializes Transact calls with a mutex, standing in for the
// serializable isolation the real store provides.
type fakeStore struct {
	mu  sync.Mutex
	err error
}

func (s *fakeStore) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	c.SessionKeysInWishlist = slices.Clone(p.SessionKeysInWishlist)
	return &c
}

func cloneConference(conf *domain.Conference) *domain.Conference {
	c := *conf
	c.Topics = slices.Clone(conf.Topics)
	return &c
}

func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.SpeakerKeys = slices.Clone(s.SpeakerKeys)
	c.Highlights = slices.Clone(s.Highlights)
	return &c
}

// fakeProfileRepo stores profiles by user ID. Get returns a clone so service
// mutations are only visible after Put, like a real committed read.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	getErr   error
	putErr   error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.MainEmail == email {
			return cloneProfile(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeProfileRepo) Put(ctx context.Context, profile *domain.Profile) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = cloneProfile(profile)
	return nil
}

// fakeConferenceRepo stores conferences by key.
type fakeConferenceRepo struct {
	mu          sync.Mutex
	conferences map[string]*domain.Conference
	order       []string
	getErr      error
	putErr      error
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{conferences: make(map[string]*domain.Conference)}
}

func (r *fakeConferenceRepo) Put(ctx context.Context, conference *domain.Conference) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conferences[conference.Key]; !ok {
		r.order = append(r.order, conference.Key)
	}
	r.conferences[conference.Key] = cloneConference(conference)
	return nil
}

func (r *fakeConferenceRepo) GetByKey(ctx context.Context, key string) (*domain.Conference, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conferences[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneConference(c), nil
}

func (r *fakeConferenceRepo) GetByKeys(ctx context.Context, keys []string) ([]*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Conference, 0, len(keys))
	for _, key := range keys {
		if c, ok := r.conferences[key]; ok {
			result = append(result, cloneConference(c))
		}
	}
	return result, nil
}

func (r *fakeConferenceRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Conference
	for _, key := range r.order {
		if c := r.conferences[key]; c.OrganizerID == organizerID {
			result = append(result, cloneConference(c))
		}
	}
	return result, nil
}

func (r *fakeConferenceRepo) Query(ctx context.Context, q domain.ConferenceQuery, params domain.PaginationParams) ([]*domain.Conference, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Conference
	for _, key := range r.order {
		c := r.conferences[key]
		if q.City != nil && c.City != *q.City {
			continue
		}
		if q.Topic != nil && !slices.Contains(c.Topics, *q.Topic) {
			continue
		}
		if q.MinSeats != nil && c.SeatsAvailable < *q.MinSeats {
			continue
		}
		result = append(result, cloneConference(c))
	}
	return result, len(result), nil
}

func (r *fakeConferenceRepo) ListNearCapacity(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Conference
	for _, key := range r.order {
		c := r.conferences[key]
		if c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats {
			result = append(result, cloneConference(c))
		}
	}
	return result, nil
}

// fakeSessionRepo stores sessions by key, preserving insertion order.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	order    []string
	getErr   error
	putErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Put(ctx context.Context, session *domain.Session) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.Key]; !ok {
		r.order = append(r.order, session.Key)
	}
	r.sessions[session.Key] = cloneSession(session)
	return nil
}

func (r *fakeSessionRepo) GetByKey(ctx context.Context, key string) (*domain.Session, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *fakeSessionRepo) GetByKeys(ctx context.Context, keys []string) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Session, 0, len(keys))
	for _, key := range keys {
		if s, ok := r.sessions[key]; ok {
			result = append(result, cloneSession(s))
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	return r.listWhere(func(s *domain.Session) bool {
		return s.ConferenceKey == conferenceKey
	})
}

func (r *fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	return r.listWhere(func(s *domain.Session) bool {
		return s.ConferenceKey == conferenceKey && s.TypeOfSession == typeOfSession
	})
}

func (r *fakeSessionRepo) ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speakerKey string) ([]*domain.Session, error) {
	return r.listWhere(func(s *domain.Session) bool {
		return s.ConferenceKey == conferenceKey && s.HasSpeaker(speakerKey)
	})
}

func (r *fakeSessionRepo) ListBySpeaker(ctx context.Context, speakerKey string) ([]*domain.Session, error) {
	return r.listWhere(func(s *domain.Session) bool {
		return s.HasSpeaker(speakerKey)
	})
}

func (r *fakeSessionRepo) listWhere(match func(*domain.Session) bool) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Session
	for _, key := range r.order {
		if s := r.sessions[key]; match(s) {
			result = append(result, cloneSession(s))
		}
	}
	return result, nil
}

// fakeSpeakerRepo stores speakers by email.
type fakeSpeakerRepo struct {
	mu       sync.Mutex
	speakers map[string]*domain.Speaker
	order    []string
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{speakers: make(map[string]*domain.Speaker)}
}

func (r *fakeSpeakerRepo) Put(ctx context.Context, speaker *domain.Speaker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.speakers[speaker.Email]; !ok {
		r.order = append(r.order, speaker.Email)
	}
	sp := *speaker
	r.speakers[speaker.Email] = &sp
	return nil
}

func (r *fakeSpeakerRepo) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.speakers[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sp := *s
	return &sp, nil
}

func (r *fakeSpeakerRepo) ListByName(ctx context.Context, name string) ([]*domain.Speaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Speaker
	for _, email := range r.order {
		if s := r.speakers[email]; s.Name == name {
			sp := *s
			result = append(result, &sp)
		}
	}
	return result, nil
}

func (r *fakeSpeakerRepo) List(ctx context.Context) ([]*domain.Speaker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Speaker, 0, len(r.order))
	for _, email := range r.order {
		sp := *r.speakers[email]
		result = append(result, &sp)
	}
	return result, nil
}

// fakeCache is an in-memory DerivedCache that can be forced to fail.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]any
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]any)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *domain.Announcement:
		*d = *value.(*domain.Announcement)
	case *domain.FeaturedSpeaker:
		*d = *value.(*domain.FeaturedSpeaker)
	default:
		panic("fakeCache: unsupported destination type")
	}
	return true, nil
}

func (c *fakeCache) Put(ctx context.Context, key string, value any) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

// fakeEnqueuer records enqueued confirmation email tasks.
type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []domain.ConfirmationEmailData
	err   error
}

func (e *fakeEnqueuer) EnqueueConfirmationEmail(ctx context.Context, data domain.ConfirmationEmailData) error {
	if e.err != nil {
		return e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = append(e.tasks, data)
	return nil
}
