package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

var profileTestTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestProfileRepository_GetByUserID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Profile
		wantErr error
	}{
		{
			name:   "success",
			userID: "u1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, display_name, main_email, tee_shirt_size`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{
						"user_id", "display_name", "main_email", "tee_shirt_size",
						"conference_keys_to_attend", "session_keys_in_wishlist", "created_at", "updated_at",
					}).AddRow("u1", "Jane", "jane@example.com", "M", "{c1,c2}", "{s1}", profileTestTime, profileTestTime))
			},
			want: &domain.Profile{
				UserID:                 "u1",
				DisplayName:            "Jane",
				MainEmail:              "jane@example.com",
				TeeShirtSize:           domain.TeeShirtSizeM,
				ConferenceKeysToAttend: []string{"c1", "c2"},
				SessionKeysInWishlist:  []string{"s1"},
				CreatedAt:              profileTestTime,
				UpdatedAt:              profileTestTime,
			},
		},
		{
			name:   "not found",
			userID: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, display_name, main_email, tee_shirt_size`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewProfileRepository(db)
			got, err := repo.GetByUserID(ctx, tt.userID)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_Put(t *testing.T) {
	ctx := context.Background()

	profile := &domain.Profile{
		UserID:                 "u1",
		DisplayName:            "Jane",
		MainEmail:              "jane@example.com",
		TeeShirtSize:           domain.TeeShirtSizeM,
		ConferenceKeysToAttend: []string{"c1"},
		SessionKeysInWishlist:  []string{},
		CreatedAt:              profileTestTime,
		UpdatedAt:              profileTestTime,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "upsert success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO profiles`).
					WithArgs("u1", "Jane", "jane@example.com", domain.TeeShirtSizeM,
						pq.Array([]string{"c1"}), pq.Array([]string{}), profileTestTime, profileTestTime).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO profiles`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewProfileRepository(db)
			err = repo.Put(ctx, profile)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
