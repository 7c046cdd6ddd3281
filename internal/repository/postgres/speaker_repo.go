package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

// NewSpeakerRepository returns a domain.SpeakerRepository implemented with Postgres.
func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

const speakerColumns = `email, name, display_name, expertise, about, created_at, updated_at`

func (r *speakerRepository) Put(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (` + speakerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			display_name = EXCLUDED.display_name,
			expertise = EXCLUDED.expertise,
			about = EXCLUDED.about,
			updated_at = EXCLUDED.updated_at
	`
	_, err := querierFrom(ctx, r.DB).ExecContext(ctx, query,
		s.Email, s.Name, s.DisplayName, pq.Array(s.Expertise), s.About, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *speakerRepository) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	query := `
		SELECT ` + speakerColumns + `
		FROM speakers
		WHERE email = $1
	`
	s := &domain.Speaker{}
	err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query, email).Scan(
		&s.Email, &s.Name, &s.DisplayName, pq.Array(&s.Expertise), &s.About, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) ListByName(ctx context.Context, name string) ([]*domain.Speaker, error) {
	query := `
		SELECT ` + speakerColumns + `
		FROM speakers
		WHERE name = $1
		ORDER BY email
	`
	return r.list(ctx, query, name)
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	query := `
		SELECT ` + speakerColumns + `
		FROM speakers
		ORDER BY email
	`
	return r.list(ctx, query)
}

func (r *speakerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s := &domain.Speaker{}
		if err := rows.Scan(
			&s.Email, &s.Name, &s.DisplayName, pq.Array(&s.Expertise), &s.About, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}
