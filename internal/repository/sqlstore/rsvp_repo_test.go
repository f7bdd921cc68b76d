package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

var rsvpCols = []string{"id", "event_id", "user_id", "username", "status", "created_at", "updated_at"}

func TestRSVPRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.RSVP
		wantErr error
	}{
		{
			name: "existing row keeps its id and created_at",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO rsvps .+ ON CONFLICT \(event_id, user_id\) DO UPDATE SET status = excluded.status`).
					WithArgs(sqlmock.AnyArg(), "ev-1", "u-1", "Going", later, later).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT .+ FROM rsvps r\s+JOIN users u`).
					WithArgs("ev-1", "u-1").
					WillReturnRows(sqlmock.NewRows(rsvpCols).AddRow("rs-1", "ev-1", "u-1", "amy", "Going", first, later))
			},
			want: &domain.RSVP{ID: "rs-1", EventID: "ev-1", UserID: "u-1", User: "amy", Status: domain.RSVPGoing, CreatedAt: first, UpdatedAt: later},
		},
		{
			name: "event deleted concurrently",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO rsvps`).WillReturnError(&pq.Error{Code: "23503"})
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

			rsvp := domain.NewRSVP("ev-1", domain.Viewer{UserID: "u-1", Username: "amy"}, domain.RSVPGoing, later)
			err = NewRSVPRepository(db).Upsert(ctx, rsvp)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, rsvp)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRSVPRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("no row is not found and nothing is inserted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec(`UPDATE rsvps SET status = \$1, updated_at = \$2 WHERE event_id = \$3 AND user_id = \$4`).
			WithArgs("Maybe", ts, "ev-1", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		got, err := NewRSVPRepository(db).UpdateStatus(ctx, "ev-1", "u-1", domain.RSVPMaybe, ts)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updated row is returned", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectExec(`UPDATE rsvps`).
			WithArgs("Not Going", ts, "ev-1", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM rsvps r`).
			WithArgs("ev-1", "u-1").
			WillReturnRows(sqlmock.NewRows(rsvpCols).AddRow("rs-1", "ev-1", "u-1", "amy", "Not Going", ts, ts))

		got, err := NewRSVPRepository(db).UpdateStatus(ctx, "ev-1", "u-1", domain.RSVPNotGoing, ts)
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPNotGoing, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), "ev-1", "u-1", 4, "nice", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM reviews r\s+JOIN users u ON u.id = r.user_id\s+WHERE r.event_id = \$1\s+ORDER BY r.created_at DESC`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "user_id", "username", "rating", "comment", "created_at"}).
			AddRow("rv-2", "ev-1", "u-1", "amy", 4, "nice", ts).
			AddRow("rv-1", "ev-1", "u-2", "bob", 2, "", ts.Add(-time.Hour)))

	repo := NewReviewRepository(db)
	rv := &domain.Review{EventID: "ev-1", UserID: "u-1", Rating: 4, Comment: "nice", CreatedAt: ts}
	require.NoError(t, repo.Create(ctx, rv))
	assert.NotEmpty(t, rv.ID)

	list, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].User)
	assert.Equal(t, "rv-1", list[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create is idempotent on id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO users .+ ON CONFLICT \(id\) DO NOTHING`).
			WithArgs("u-1", "amy", "amy@example.com", ts).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO profiles .+ ON CONFLICT \(user_id\) DO NOTHING`).
			WithArgs("u-1", "amy", "", "", nil, ts).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		u := domain.NewUser("u-1", "amy", "amy@example.com", ts)
		p := &domain.Profile{UserID: "u-1", FullName: "amy", UpdatedAt: ts}
		require.NoError(t, NewUserRepository(db, Postgres).Create(ctx, u, p))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken username is a conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		u := domain.NewUser("u-2", "amy", "", ts)
		err = NewUserRepository(db, Postgres).Create(ctx, u, &domain.Profile{UserID: "u-2", UpdatedAt: ts})
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list by ids uses ANY on postgres", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM users WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]string{"u-1", "u-9"})).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at"}).AddRow("u-1", "amy", "", ts))

		users, err := NewUserRepository(db, Postgres).ListByIDs(ctx, []string{"u-1", "u-9"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "amy", users[0].Username)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("profile with image", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM profiles`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "bio", "location", "image_url", "updated_at"}).
				AddRow("u-1", "Amy", "", "Oslo", "https://img.example.com/a.png", ts))

		p, err := NewProfileRepository(db).GetByUserID(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, p.ImageURL)
		assert.Equal(t, "https://img.example.com/a.png", *p.ImageURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
