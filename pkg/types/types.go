package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType represents user role levels. The set is closed: role checks
// switch over these constants instead of comparing raw strings.
type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeInstructor UserType = "instructor"
)

// ParseUserType normalizes and validates a role string.
func ParseUserType(value string) (UserType, error) {
	switch UserType(strings.ToLower(strings.TrimSpace(value))) {
	case UserTypeStudent:
		return UserTypeStudent, nil
	case UserTypeInstructor:
		return UserTypeInstructor, nil
	default:
		return "", fmt.Errorf("unknown user type %q", value)
	}
}

// Valid reports whether the value is one of the known roles.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeInstructor:
		return true
	default:
		return false
	}
}

// BaseModel contains common fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
