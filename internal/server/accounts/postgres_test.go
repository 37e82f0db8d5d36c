package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

var accountColumns = []string{"id", "email", "name", "full_name", "role", "bio", "avatar", "phone", "location",
	"join_date", "last_login", "salt", "password_hash"}

func TestPostgres_GetByEmail_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	joined := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	last := time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(1, "admin@example.com", "Admin User", "Admin User", "admin", "bio", "", "+1", "SF", joined, last, []byte("s"), []byte("h")))

	rec, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Profile.ID)
	assert.Equal(t, account.RoleAdmin, rec.Profile.Role)
	assert.Equal(t, joined, rec.Profile.JoinDate)
	assert.Equal(t, last, rec.Profile.LastLogin)
	assert.Equal(t, []byte("s"), rec.Salt)
	assert.Equal(t, []byte("h"), rec.Hash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetByID_NullLastLogin(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(2, "user@example.com", "Regular User", "Regular User", "user", "", "", "", "", time.Now(), nil, []byte("s"), []byte("h")))

	rec, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, rec.Profile.LastLogin.IsZero())
}

func TestPostgres_Get_NotFoundAndError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+accounts`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	mock.ExpectQuery(`FROM\s+accounts`).WithArgs("x@y.z").WillReturnError(errors.New("db down"))
	_, err = repo.GetByEmail(context.Background(), "x@y.z")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestPostgres_Update(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	p := account.Profile{ID: 1, Email: "a@b.c", Name: "N", FullName: "N", Bio: "b", Avatar: "https://x/a.png"}

	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+email\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(1), "a@b.c", "N", "N", "b", "https://x/a.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), p))

	mock.ExpectExec(`UPDATE\s+accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), p), account.ErrAccountNotFound)

	mock.ExpectExec(`UPDATE\s+accounts`).WillReturnError(errors.New("boom"))
	err := repo.Update(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestPostgres_TouchLastLogin(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+last_login\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(1), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.TouchLastLogin(context.Background(), 1, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoAccounts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for _, s := range account.Seeds() {
		mock.ExpectExec(`(?s)INSERT\s+INTO\s+accounts.*ON\s+CONFLICT\s+\(email\)\s+DO\s+NOTHING`).
			WithArgs(s.Profile.Email, s.Profile.Name, s.Profile.FullName, string(s.Profile.Role), s.Profile.Bio,
				s.Profile.Avatar, s.Profile.Phone, s.Profile.Location, s.Profile.JoinDate, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, SeedDemoAccounts(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDemoAccounts_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = SeedDemoAccounts(context.Background(), db)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_UsesSeam(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var called bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		assert.Equal(t, ".", dir)
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), nil))
	assert.True(t, called)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("migrate failed")
	}
	assert.EqualError(t, RunMigrations(context.Background(), nil), "migrate failed")
}
