package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

// NewConferenceRepository returns a domain.ConferenceRepository implemented with Postgres.
func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

const conferenceColumns = `key, organizer_id, name, description, topics, city,
	       start_date, end_date, max_attendees, seats_available, created_at, updated_at`

func (r *conferenceRepository) Put(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (` + conferenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			topics = EXCLUDED.topics,
			city = EXCLUDED.city,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			max_attendees = EXCLUDED.max_attendees,
			seats_available = EXCLUDED.seats_available,
			updated_at = EXCLUDED.updated_at
	`
	_, err := querierFrom(ctx, r.DB).ExecContext(ctx, query,
		c.Key, c.OrganizerID, c.Name, c.Description, pq.Array(c.Topics), c.City,
		c.StartDate, c.EndDate, c.MaxAttendees, c.SeatsAvailable, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *conferenceRepository) GetByKey(ctx context.Context, key string) (*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE key = $1
	`
	c := &domain.Conference{}
	err := querierFrom(ctx, r.DB).QueryRowContext(ctx, query, key).Scan(
		&c.Key, &c.OrganizerID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
		&c.StartDate, &c.EndDate, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetByKeys(ctx context.Context, keys []string) ([]*domain.Conference, error) {
	if len(keys) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE key = ANY($1)
	`
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byKey := make(map[string]*domain.Conference, len(keys))
	for rows.Next() {
		c := &domain.Conference{}
		if err := rows.Scan(
			&c.Key, &c.OrganizerID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
			&c.StartDate, &c.EndDate, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		byKey[c.Key] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve input order; keys that no longer resolve are dropped.
	result := make([]*domain.Conference, 0, len(keys))
	for _, key := range keys {
		if c, ok := byKey[key]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_id = $1
		ORDER BY name
	`
	return r.list(ctx, query, organizerID)
}

func (r *conferenceRepository) ListNearCapacity(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name
	`
	return r.list(ctx, query, maxSeats)
}

func (r *conferenceRepository) Query(ctx context.Context, q domain.ConferenceQuery, params domain.PaginationParams) ([]*domain.Conference, int, error) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	n := 1
	if q.City != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("city = $%d", n))
		args = append(args, *q.City)
		n++
	}
	if q.Topic != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("$%d = ANY(topics)", n))
		args = append(args, *q.Topic)
		n++
	}
	if q.StartsAfter != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date >= $%d", n))
		args = append(args, *q.StartsAfter)
		n++
	}
	if q.StartsBefore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date <= $%d", n))
		args = append(args, *q.StartsBefore)
		n++
	}
	if q.MinSeats != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("seats_available >= $%d", n))
		args = append(args, *q.MinSeats)
		n++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM conferences WHERE ` + where
	if err := querierFrom(ctx, r.DB).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+conferenceColumns+`
		FROM conferences
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, where, n, n+1)
	args = append(args, params.Limit(), params.Offset())

	conferences, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return conferences, total, nil
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := querierFrom(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c := &domain.Conference{}
		if err := rows.Scan(
			&c.Key, &c.OrganizerID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
			&c.StartDate, &c.EndDate, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}
