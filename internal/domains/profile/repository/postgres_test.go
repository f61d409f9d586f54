package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confession-backend/internal/domains/profile"
)

func newRepoWithMock(t *testing.T) (profile.Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

var insertProfileSQL = regexp.QuoteMeta(`INSERT INTO profiles (id, email, display_name, slug, created_at, updated_at)`)

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	p := profile.NewProfile(uuid.New(), "alice@example.com", "Alice", "alice")

	mock.ExpectQuery(insertProfileSQL).
		WithArgs(p.ID, p.Email, p.DisplayName, p.Slug).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_MapsUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"profiles_slug_key", profile.ErrSlugTaken},
		{"profiles_pkey", profile.ErrProfileExists},
	}

	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			p := profile.NewProfile(uuid.New(), "a@b.c", "Alice", "alice")

			mock.ExpectQuery(insertProfileSQL).
				WithArgs(p.ID, p.Email, p.DisplayName, p.Slug).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			err := repo.Create(context.Background(), p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_OtherError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	p := profile.NewProfile(uuid.New(), "a@b.c", "Alice", "alice")

	mock.ExpectQuery(insertProfileSQL).
		WithArgs(p.ID, p.Email, p.DisplayName, p.Slug).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), p)
	require.Error(t, err)
	assert.NotErrorIs(t, err, profile.ErrSlugTaken)
	assert.Contains(t, err.Error(), "db down")
}

func TestExistsBySlug(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM profiles WHERE slug = $1)`)

	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q).WithArgs("alice-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ExistsBySlug(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsBySlug(context.Background(), "alice-1")
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM profiles WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}
