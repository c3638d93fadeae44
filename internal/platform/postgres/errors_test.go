package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskr/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"email unique", &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: emailConstraint}, store.ErrEmailExists},
		{"other unique", &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "users_age_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unrecognised passes through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Same(t, err, MapError(err))
	})
}

func TestMapError_EmailIsDuplicate(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: emailConstraint})
	assert.True(t, store.IsDuplicateError(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestWrapErr(t *testing.T) {
	t.Run("not found passes through", func(t *testing.T) {
		err := wrapErr("task", "find", sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NotErrorIs(t, err, store.ErrStorage)
	})

	t.Run("unknown becomes storage error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := wrapErr("task", "find", cause)

		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "task", storeErr.Entity)
		assert.Equal(t, "find", storeErr.Operation)
		assert.ErrorIs(t, err, store.ErrStorage)
		assert.ErrorIs(t, err, cause)
	})
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, checkRowsAffected(sqlmock.NewResult(0, 1), store.ErrUserNotFound))
	assert.ErrorIs(t, checkRowsAffected(sqlmock.NewResult(0, 0), store.ErrUserNotFound), store.ErrUserNotFound)

	resultErr := errors.New("driver cannot count")
	assert.ErrorIs(t, checkRowsAffected(sqlmock.NewErrorResult(resultErr), store.ErrUserNotFound), resultErr)
}
