package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

// NewSessionRepository returns a domain.SessionRepository implemented with Postgres.
func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

const sessionColumns = `key, conference_key, name, start_date, end_date, start_hour, end_hour,
	       type_of_session, location, speaker_keys, highlights, created_at, updated_at`

func (r *sessionRepository) Put(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			start_hour = EXCLUDED.start_hour,
			end_hour = EXCLUDED.end_hour,
			type_of_session = EXCLUDED.type_of_session,
			location = EXCLUDED.location,
			speaker_keys = EXCLUDED.speaker_keys,
			highlights = EXCLUDED.highlights,
			updated_at = EXCLUDED.updated_at
	`
	_, err := querierFrom(ctx, r.DB).ExecContext(ctx, query,
		s.Key, s.ConferenceKey, s.Name, s.StartDate, s.EndDate, s.StartHour, s.EndHour,
		s.TypeOfSession, s.Location, pq.Array(s.SpeakerKeys), pq.Array(s.Highlights),
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *sessionRepository) GetByKey(ctx context.Context, key string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE key = $1
	`
	s := &domain.Session{}
	err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query, key).Scan(
		&s.Key, &s.ConferenceKey, &s.Name, &s.StartDate, &s.EndDate, &s.StartHour, &s.EndHour,
		&s.TypeOfSession, &s.Location, pq.Array(&s.SpeakerKeys), pq.Array(&s.Highlights),
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetByKeys(ctx context.Context, keys []string) ([]*domain.Session, error) {
	if len(keys) == 0 {
		return []*domain.Session{}, nil
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE key = ANY($1)
	`
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byKey := make(map[string]*domain.Session, len(keys))
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		byKey[s.Key] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve wishlist order; deleted sessions are dropped.
	result := make([]*domain.Session, 0, len(keys))
	for _, key := range keys {
		if s, ok := byKey[key]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_key = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, conferenceKey)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceKey, typeOfSession string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_key = $1 AND type_of_session = $2
		ORDER BY start_date
	`
	return r.list(ctx, query, conferenceKey, typeOfSession)
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceKey, speakerKey string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_key = $1 AND $2 = ANY(speaker_keys)
		ORDER BY created_at
	`
	return r.list(ctx, query, conferenceKey, speakerKey)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speakerKey string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE $1 = ANY(speaker_keys)
		ORDER BY created_at
	`
	return r.list(ctx, query, speakerKey)
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(rows *sql.Rows) (*domain.Session, error) {
	s := &domain.Session{}
	err := rows.Scan(
		&s.Key, &s.ConferenceKey, &s.Name, &s.StartDate, &s.EndDate, &s.StartHour, &s.EndHour,
		&s.TypeOfSession, &s.Location, pq.Array(&s.SpeakerKeys), pq.Array(&s.Highlights),
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
