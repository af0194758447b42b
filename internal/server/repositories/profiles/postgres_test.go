package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+profiles\s*\(user_id,\s*bio,\s*company,\s*position,\s*phone,\s*avatar_url\)\s*VALUES\s*\(\$1,\s*'',\s*'',\s*'',\s*'',\s*''\)\s*$`
	selectQ = `(?s)^SELECT\s+id,\s*user_id,\s*bio,\s*company,\s*position,\s*phone,\s*avatar_url,\s*updated_at\s+FROM\s+profiles\s+WHERE\s+user_id\s*=\s*\$1\s*$`
	updateQ = `(?s)^UPDATE\s+profiles\s+SET\s+bio\s*=\s*\$1,.*avatar_url\s*=\s*\$5,\s*updated_at\s*=\s*CURRENT_TIMESTAMP\s+WHERE\s+user_id\s*=\s*\$6\s*$`
)

var cols = []string{"id", "user_id", "bio", "company", "position", "phone", "avatar_url", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreateEmpty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(insertQ).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertQ).WithArgs(int64(4)).WillReturnError(errors.New("fk"))

	require.NoError(t, repo.CreateEmpty(context.Background(), 3))
	require.ErrorContains(t, repo.CreateEmpty(context.Background(), 4), "db error: fk")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	mock.ExpectQuery(selectQ).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 3, "bio", "Acme", "dev", "555", "http://a", now))
	mock.ExpectQuery(selectQ).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Company)
	require.NotNil(t, p.UpdatedAt)
	assert.True(t, p.UpdatedAt.Equal(now))

	_, err = repo.Get(context.Background(), 9)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	f := models.ProfileFields{Bio: "b", Company: "c", Position: "p", Phone: "ph", AvatarURL: "u"}

	mock.ExpectExec(updateQ).WithArgs("b", "c", "p", "ph", "u", int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectQ).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 3, "b", "c", "p", "ph", "u", nil))

	p, err := repo.Update(context.Background(), 3, f)
	require.NoError(t, err)
	assert.Equal(t, "u", p.AvatarURL)
	assert.Nil(t, p.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 3, models.ProfileFields{})
	require.ErrorIs(t, err, common.ErrNotFound)
}
