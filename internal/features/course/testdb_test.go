package course

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/pkg/types"
)

// testDB opens the database named by TEST_DATABASE_URL and migrates the
// schema. Tests that need it are skipped when the variable is unset.
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
	require.NoError(t, db.AutoMigrate(&user.User{}, &Course{}))

	t.Cleanup(func() {
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM users")
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role types.UserType, name string) user.User {
	t.Helper()

	usr, err := user.Create(db, user.CreateInput{
		FullName: name,
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "password123",
		UserType: role,
	})
	require.NoError(t, err)
	return usr
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uuid.UUID, name string) Course {
	t.Helper()

	crs, err := Create(db, CreateInput{
		Name:         name,
		Description:  "a course about " + name,
		Content:      "lesson plan for " + name,
		InstructorID: instructorID,
	})
	require.NoError(t, err)
	return crs
}
