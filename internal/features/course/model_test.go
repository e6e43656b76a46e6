package course

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/pkg/types"
)

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Grace Hopper")

	created := createTestCourse(t, db, instructor.ID, "Compilers")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Empty(t, created.Students)

	crs, err := Get(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compilers", crs.Name)
	assert.Equal(t, instructor.ID, crs.InstructorID)

	require.NotNil(t, crs.Instructor)
	assert.Equal(t, "Grace Hopper", crs.Instructor.FullName)
}

func TestCreateRequiresName(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Ada Lovelace")

	_, err := Create(db, CreateInput{InstructorID: instructor.ID})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetMissingCourse(t *testing.T) {
	db := testDB(t)

	_, err := Get(db, uuid.New())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListIncludesInstructorProjection(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Alan Kay")
	createTestCourse(t, db, instructor.ID, "Smalltalk")
	createTestCourse(t, db, instructor.ID, "GUIs")

	courses, err := List(db)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	for _, crs := range courses {
		require.NotNil(t, crs.Instructor)
		assert.Equal(t, "Alan Kay", crs.Instructor.FullName)
	}
}

func TestListByInstructorScoping(t *testing.T) {
	db := testDB(t)
	first := createTestUser(t, db, types.UserTypeInstructor, "First Instructor")
	second := createTestUser(t, db, types.UserTypeInstructor, "Second Instructor")
	owned := createTestCourse(t, db, first.ID, "Owned Course")
	createTestCourse(t, db, second.ID, "Other Course")

	courses, err := ListByInstructor(db, first.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, owned.ID, courses[0].ID)

	courses, err = ListByInstructor(db, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestEnrollAndListEnrolled(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	student := createTestUser(t, db, types.UserTypeStudent, "Student")
	other := createTestUser(t, db, types.UserTypeStudent, "Other Student")
	crs := createTestCourse(t, db, instructor.ID, "Databases")

	enrolled, err := Enroll(db, crs.ID, student.ID)
	require.NoError(t, err)
	assert.Len(t, enrolled.Students, 1)
	assert.Equal(t, student.ID.String(), enrolled.Students[0])

	courses, err := ListEnrolled(db, student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, crs.ID, courses[0].ID)

	courses, err = ListEnrolled(db, other.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestEnrollTwiceIsRejected(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	student := createTestUser(t, db, types.UserTypeStudent, "Student")
	crs := createTestCourse(t, db, instructor.ID, "Networking")

	_, err := Enroll(db, crs.ID, student.ID)
	require.NoError(t, err)

	_, err = Enroll(db, crs.ID, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	reloaded, err := Get(db, crs.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Students, 1)
}

func TestEnrollMissingCourse(t *testing.T) {
	db := testDB(t)
	student := createTestUser(t, db, types.UserTypeStudent, "Student")

	_, err := Enroll(db, uuid.New(), student.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestConcurrentEnrollAddsSingleEntry(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	student := createTestUser(t, db, types.UserTypeStudent, "Student")
	crs := createTestCourse(t, db, instructor.ID, "Operating Systems")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Enroll(db, crs.ID, student.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		}
	}
	assert.Equal(t, 1, successes)

	reloaded, err := Get(db, crs.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Students, 1)
}

func TestRosterProjectionAndInstructorFilter(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	student := createTestUser(t, db, types.UserTypeStudent, "Student")
	crs := createTestCourse(t, db, instructor.ID, "Algorithms")

	_, err := Enroll(db, crs.ID, student.ID)
	require.NoError(t, err)

	// Nothing stops an instructor from self-enrolling; the roster view must
	// still hide them.
	_, err = Enroll(db, crs.ID, instructor.ID)
	require.NoError(t, err)

	roster, err := Roster(db, crs.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, student.ID, roster[0].ID)
	assert.Equal(t, "Student", roster[0].FullName)
	assert.NotEmpty(t, roster[0].Email)
}

func TestRosterMissingCourse(t *testing.T) {
	db := testDB(t)

	_, err := Roster(db, uuid.New())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateAllowListedFields(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	crs := createTestCourse(t, db, instructor.ID, "Original Name")

	before, err := Get(db, crs.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	name := "New Name"
	description := "new description"
	updated, err := Update(db, crs.ID, UpdateInput{
		Name:         &name,
		DescProvided: true,
		Description:  &description,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, before.Content, updated.Content)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
	// Ownership never moves on update.
	assert.Equal(t, instructor.ID, updated.InstructorID)
}

func TestUpdateImageCanBeCleared(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")

	image := "/uploads/cover.png"
	crs, err := Create(db, CreateInput{
		Name:         "With Image",
		Image:        &image,
		InstructorID: instructor.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, crs.Image)

	updated, err := Update(db, crs.ID, UpdateInput{ImageProvided: true, Image: nil})
	require.NoError(t, err)
	assert.Nil(t, updated.Image)
}

func TestUpdateDoesNotRevertConcurrentEnrollments(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	crs := createTestCourse(t, db, instructor.ID, "Concurrency")

	const studentCount = 10
	students := make([]user.User, studentCount)
	for i := range students {
		students[i] = createTestUser(t, db, types.UserTypeStudent, fmt.Sprintf("Student %d", i))
	}

	// Enrollments landing while updates rewrite the course row must survive:
	// the update only touches allow-listed columns, never the roster.
	var wg sync.WaitGroup
	errs := make(chan error, 2*studentCount)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, student := range students {
			if _, err := Enroll(db, crs.ID, student.ID); err != nil {
				errs <- err
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < studentCount; i++ {
			name := fmt.Sprintf("Concurrency rev %d", i)
			if _, err := Update(db, crs.ID, UpdateInput{Name: &name}); err != nil {
				errs <- err
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	reloaded, err := Get(db, crs.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Students, studentCount)
}

func TestUpdateMissingCourse(t *testing.T) {
	db := testDB(t)

	name := "anything"
	_, err := Update(db, uuid.New(), UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	instructor := createTestUser(t, db, types.UserTypeInstructor, "Instructor")
	crs := createTestCourse(t, db, instructor.ID, "Doomed Course")

	require.NoError(t, Delete(db, crs.ID))

	_, err := Get(db, crs.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	assert.ErrorIs(t, Delete(db, crs.ID), ErrCourseNotFound)
}
