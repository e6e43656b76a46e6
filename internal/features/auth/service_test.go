package auth

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/pkg/types"
)

var testTokenConfig = TokenConfig{
	JWTSecret:          "access-secret",
	JWTRefreshSecret:   "refresh-secret",
	AccessTokenExpiry:  15 * time.Minute,
	RefreshTokenExpiry: 7 * 24 * time.Hour,
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set, skip database integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error)
	require.NoError(t, db.AutoMigrate(&user.User{}))

	t.Cleanup(func() {
		db.Exec("DELETE FROM users")
	})

	return db
}

func TestRegisterValidation(t *testing.T) {
	// Validation happens before any database access.
	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "password123"}, ErrMissingFields},
		{"missing email", RegisterInput{FullName: "A", Password: "password123"}, ErrMissingFields},
		{"missing password", RegisterInput{FullName: "A", Email: "a@b.com"}, ErrMissingFields},
		{"bad email", RegisterInput{FullName: "A", Email: "not-an-email", Password: "password123"}, ErrInvalidEmail},
		{"short password", RegisterInput{FullName: "A", Email: "a@b.com", Password: "short"}, ErrWeakPassword},
		{"unknown role", RegisterInput{FullName: "A", Email: "a@b.com", Password: "password123", Role: "admin"}, ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Register(nil, tc.input, testTokenConfig)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	_, err := Login(nil, LoginInput{Email: "a@b.com"}, testTokenConfig)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = Login(nil, LoginInput{Password: "password123"}, testTokenConfig)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	_, err := Refresh(nil, "not-a-jwt", testTokenConfig)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	email := fmt.Sprintf("%s@example.com", uuid.New())

	registered, err := Register(db, RegisterInput{
		FullName: "New Student",
		Email:    email,
		Password: "password123",
	}, testTokenConfig)
	require.NoError(t, err)
	assert.Equal(t, types.UserTypeStudent, registered.User.UserType)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	_, err = Register(db, RegisterInput{
		FullName: "Duplicate",
		Email:    email,
		Password: "password123",
	}, testTokenConfig)
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	loggedIn, err := Login(db, LoginInput{Email: email, Password: "password123"}, testTokenConfig)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = Login(db, LoginInput{Email: email, Password: "wrong-password"}, testTokenConfig)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Login(db, LoginInput{Email: "nobody@example.com", Password: "password123"}, testTokenConfig)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterInstructorRole(t *testing.T) {
	db := testDB(t)

	registered, err := Register(db, RegisterInput{
		FullName: "New Instructor",
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "password123",
		Role:     "instructor",
	}, testTokenConfig)
	require.NoError(t, err)
	assert.Equal(t, types.UserTypeInstructor, registered.User.UserType)
}

func TestRefreshRoundTrip(t *testing.T) {
	db := testDB(t)

	registered, err := Register(db, RegisterInput{
		FullName: "Refresh User",
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "password123",
	}, testTokenConfig)
	require.NoError(t, err)

	refreshed, err := Refresh(db, registered.RefreshToken, testTokenConfig)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	// Access tokens are signed with the other secret and must not refresh.
	_, err = Refresh(db, registered.AccessToken, testTokenConfig)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
