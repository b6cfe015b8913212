package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestUserRepository_CreateDuplicateIsValidation(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "leo", Email: "leo@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "leo", Email: "other@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := testutil.CreateUser(t, db, "leo")

	got, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))
}

func TestGroupRepository_PostgresUniqueViolation(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "groups"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Group{Title: "Cats", Slug: "cats"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetBySlugSQL(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGroupRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "description"}).
		AddRow(1, "Cats", "cats", "All about cats")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE slug = $1`)).
		WithArgs("cats", 1).
		WillReturnRows(rows)

	group, err := repo.GetBySlug(context.Background(), "cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
}
