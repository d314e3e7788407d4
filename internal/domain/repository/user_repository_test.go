package repository

import (
	"context"
	"database/sql"
	"errors"
	"starter_api/internal/common"
	"starter_api/internal/common/security"
	"starter_api/internal/domain/model"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func storedHash(t *testing.T, digest string) security.HashedPassword {
	t.Helper()
	var h security.HashedPassword
	require.NoError(t, h.Scan(digest))
	return h
}

var userCols = []string{"id", "username", "password", "superuser", "disabled"}

func TestPgUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password,\s*superuser,\s*disabled\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("alice", "digest", true, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := &model.User{Username: "alice", Password: storedHash(t, "digest"), Superuser: true}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(42), u.ID)
}

func TestPgUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("alice", sqlmock.AnyArg(), false, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{Username: "alice", Password: storedHash(t, "digest")})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestPgUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &model.User{Username: "alice", Password: storedHash(t, "digest")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), "db down")
}

func TestPgUserRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*username,\s*password,\s*superuser,\s*disabled\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(7), "bob", "digest", false, true))

	u, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.True(t, u.Disabled)
	assert.False(t, u.Password.IsZero())
}

func TestPgUserRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgUserRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	rows := sqlmock.NewRows(userCols).
		AddRow(int64(1), "admin", "d1", true, false).
		AddRow(int64(2), "foo", "d2", false, false)
	mock.ExpectQuery(`FROM\s+users\s+ORDER\s+BY\s+id$`).WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "foo", users[1].Username)
}

func TestPgUserRepository_List_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectQuery(`FROM\s+users`).WillReturnRows(sqlmock.NewRows(userCols))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestPgUserRepository_UpdatePassword(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPgUserRepository(db)

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+password\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs("new-digest", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 3, storedHash(t, "new-digest")))
}

func TestPgUserRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPgUserRepository(db)

			mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), 5)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
