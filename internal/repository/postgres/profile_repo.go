package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

// NewProfileRepository returns a domain.ProfileRepository implemented with Postgres.
func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

const profileColumns = `user_id, display_name, main_email, tee_shirt_size,
	       conference_keys_to_attend, session_keys_in_wishlist, created_at, updated_at`

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	return r.scanProfile(querierFrom(ctx, r.DB).QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE main_email = $1
	`
	return r.scanProfile(querierFrom(ctx, r.DB).QueryRowContext(ctx, query, email))
}

func (r *profileRepository) scanProfile(row *sql.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.MainEmail, &p.TeeShirtSize,
		pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysInWishlist),
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Put(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			main_email = EXCLUDED.main_email,
			tee_shirt_size = EXCLUDED.tee_shirt_size,
			conference_keys_to_attend = EXCLUDED.conference_keys_to_attend,
			session_keys_in_wishlist = EXCLUDED.session_keys_in_wishlist,
			updated_at = EXCLUDED.updated_at
	`
	_, err := querierFrom(ctx, r.DB).ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, p.TeeShirtSize,
		pq.Array(p.ConferenceKeysToAttend), pq.Array(p.SessionKeysInWishlist),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}
