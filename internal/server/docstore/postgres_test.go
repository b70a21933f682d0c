package docstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

const (
	selectQ = `(?s)^SELECT\s+body\s+FROM\s+documents\s+WHERE\s+name\s*=\s*\$1$`
	upsertQ = `(?s)^INSERT\s+INTO\s+documents\s*\(name,\s*body,\s*updated_at\).*ON\s+CONFLICT\s+\(name\)\s+DO\s+UPDATE`
)

func TestPostgresStore_Load(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("users.json").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`[{"id":1}]`)))

	got, err := s.Load(context.Background(), "users.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadNotFound(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("users.json").WillReturnError(sql.ErrNoRows)

	_, err := s.Load(context.Background(), "users.json")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresStore_LoadDBError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("users.json").WillReturnError(errors.New("db down"))

	_, err := s.Load(context.Background(), "users.json")
	require.ErrorContains(t, err, "db error: db down")
}

func TestPostgresStore_SaveInOneTransaction(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(upsertQ).WithArgs("schedules.seq.json", `{"last_id":2}`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertQ).WithArgs("schedules.json", `[]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Save(context.Background(),
		Document{Name: "schedules.seq.json", Body: []byte(`{"last_id":2}`)},
		Document{Name: "schedules.json", Body: []byte(`[]`)},
	)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRollsBack(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(upsertQ).WithArgs("schedules.seq.json", `{"last_id":2}`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertQ).WithArgs("schedules.json", `[]`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Save(context.Background(),
		Document{Name: "schedules.seq.json", Body: []byte(`{"last_id":2}`)},
		Document{Name: "schedules.json", Body: []byte(`[]`)},
	)
	require.ErrorContains(t, err, "db error: disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RunMigrations(t *testing.T) {
	s, _ := newPostgresWithMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, s.RunMigrations(context.Background()))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("bad migration")
	}
	require.EqualError(t, s.RunMigrations(context.Background()), "bad migration")
}

func TestPostgresStore_SaveKeepsEscapedNUL(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	body := `[{"id":1,"user_id":1,"title":"a\u0000b","date":"2024-06-01"}]`

	mock.ExpectBegin()
	mock.ExpectExec(upsertQ).WithArgs("schedules.json", body).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Save(context.Background(), Document{Name: "schedules.json", Body: []byte(body)}))
	require.NoError(t, mock.ExpectationsWereMet())
}
