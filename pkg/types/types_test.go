package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserType(t *testing.T) {
	t.Run("AcceptsKnownRoles", func(t *testing.T) {
		parsed, err := ParseUserType("student")
		assert.NoError(t, err)
		assert.Equal(t, UserTypeStudent, parsed)

		parsed, err = ParseUserType("instructor")
		assert.NoError(t, err)
		assert.Equal(t, UserTypeInstructor, parsed)
	})

	t.Run("NormalizesCaseAndWhitespace", func(t *testing.T) {
		parsed, err := ParseUserType("  Instructor ")
		assert.NoError(t, err)
		assert.Equal(t, UserTypeInstructor, parsed)
	})

	t.Run("RejectsUnknownRoles", func(t *testing.T) {
		for _, value := range []string{"", "admin", "superadmin", "teacher", "instructorr"} {
			_, err := ParseUserType(value)
			assert.Error(t, err, "expected %q to be rejected", value)
		}
	})
}

func TestUserTypeValid(t *testing.T) {
	assert.True(t, UserTypeStudent.Valid())
	assert.True(t, UserTypeInstructor.Valid())
	assert.False(t, UserType("admin").Valid())
	assert.False(t, UserType("").Valid())
}
