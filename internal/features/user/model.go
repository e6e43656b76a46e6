package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/pkg/types"
)

// User represents a system user: the authenticated principal behind every
// course request.
type User struct {
	types.BaseModel

	FullName string         `gorm:"type:varchar(100);not null;column:full_name" json:"fullname"`
	Email    string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password string         `gorm:"type:varchar(255);not null" json:"-"`
	UserType types.UserType `gorm:"type:varchar(20);not null;default:'student';column:user_type;index" json:"role"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// CreateInput carries data for creating a new user.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	UserType types.UserType
}

// Create inserts a new user with a bcrypt-hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	if input.FullName == "" || input.Email == "" || input.Password == "" {
		return User{}, ErrMissingFields
	}

	userType := input.UserType
	if userType == "" {
		userType = types.UserTypeStudent
	}
	if !userType.Valid() {
		return User{}, ErrInvalidUserType
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing User
	err := db.First(&existing, "LOWER(email) = ?", email).Error
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	usr := User{
		FullName: input.FullName,
		Email:    email,
		Password: string(hashed),
		UserType: userType,
	}

	if err := db.Create(&usr).Error; err != nil {
		return User{}, err
	}

	return usr, nil
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := db.First(&usr, "LOWER(email) = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// ComparePassword checks a plaintext password against the stored hash.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsInstructor reports whether the user holds the instructor role.
func (u *User) IsInstructor() bool {
	switch u.UserType {
	case types.UserTypeInstructor:
		return true
	case types.UserTypeStudent:
		return false
	default:
		return false
	}
}
