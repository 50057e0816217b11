package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venkatakausik18/snap-n-shop-central/internal/models"
	repository "github.com/venkatakausik18/snap-n-shop-central/internal/repositories"
)

func TestNewUserRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	assert.NotNil(t, repo, "NewUserRepo should return a non-nil repository")
}

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	ctx := t.Context()

	insertSQL := regexp.QuoteMeta(`
		INSERT INTO users(email, password, name, phone, created_at, updated_at)
		VALUES($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, role, created_at, updated_at`)

	t.Run("CreateUser_Success", func(t *testing.T) {
		user := &models.User{
			Email:    "test@example.com",
			Password: "hashedpassword",
			Name:     "Test User",
			Phone:    "+919876543210",
		}
		now := time.Now()
		newID := uuid.New()

		mock.ExpectQuery(insertSQL).
			WithArgs(user.Email, user.Password, user.Name, user.Phone).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role", "created_at", "updated_at"}).
				AddRow(newID, "customer", now, now))

		err := repo.CreateUser(ctx, user)

		require.NoError(t, err, "CreateUser should not return an error on success")
		assert.Equal(t, newID, user.ID, "User ID should be updated")
		assert.Equal(t, models.RoleCustomer, user.Role, "New accounts default to the customer role")
		assert.WithinDuration(t, now, user.CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
	})

	t.Run("CreateUser_NoPhone", func(t *testing.T) {
		user := &models.User{Email: "nophone@example.com", Password: "hash", Name: "No Phone"}
		now := time.Now()

		mock.ExpectQuery(insertSQL).
			WithArgs(user.Email, user.Password, user.Name, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role", "created_at", "updated_at"}).
				AddRow(uuid.New(), "customer", now, now))

		require.NoError(t, repo.CreateUser(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateUser_Error", func(t *testing.T) {
		user := &models.User{Email: "error@example.com", Password: "password", Name: "Error User"}
		dbError := errors.New("database insertion error")

		mock.ExpectQuery(insertSQL).
			WithArgs(user.Email, user.Password, user.Name, nil).
			WillReturnError(dbError)

		err := repo.CreateUser(ctx, user)

		require.ErrorIs(t, err, dbError)
		assert.Equal(t, uuid.Nil, user.ID, "User ID should not be set on error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	selectByEmailSQL := regexp.QuoteMeta(`
		SELECT id, email, password, name, COALESCE(phone, ''), role, created_at, updated_at
		FROM users
		WHERE email = $1`)

	t.Run("GetUserByEmail_Success", func(t *testing.T) {
		email := "found@example.com"
		expectedID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(selectByEmailSQL).
			WithArgs(email).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "phone", "role", "created_at", "updated_at"}).
				AddRow(expectedID, email, "hashedpassword", "Found User", "", "admin", now, now))

		user, err := repo.GetUserByEmail(ctx, email)

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, expectedID, user.ID)
		assert.Equal(t, "hashedpassword", user.Password)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_NotFound", func(t *testing.T) {
		mock.ExpectQuery(selectByEmailSQL).
			WithArgs("notfound@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail(ctx, "notfound@example.com")

		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_DBError", func(t *testing.T) {
		dbError := errors.New("connection lost")

		mock.ExpectQuery(selectByEmailSQL).
			WithArgs("dberror@example.com").
			WillReturnError(dbError)

		user, err := repo.GetUserByEmail(ctx, "dberror@example.com")

		require.ErrorIs(t, err, dbError)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	selectByIDSQL := regexp.QuoteMeta(`
		SELECT id, email, name, COALESCE(phone, ''), role, created_at, updated_at
		FROM users
		WHERE id = $1`)

	t.Run("GetUserByID_Success", func(t *testing.T) {
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(selectByIDSQL).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "role", "created_at", "updated_at"}).
				AddRow(userID, "byid@example.com", "ID User", "555", "customer", now, now))

		user, err := repo.GetUserByID(ctx, userID)

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "555", user.Phone)
		assert.Empty(t, user.Password, "Password should not be loaded by id")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByID_NotFound", func(t *testing.T) {
		userID := uuid.New()

		mock.ExpectQuery(selectByIDSQL).
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByID(ctx, userID)

		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
