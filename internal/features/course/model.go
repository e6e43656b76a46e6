package course

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/pkg/types"
)

// Course is a teachable unit owned by exactly one instructor. The enrollment
// roster is stored as a uuid[] column; membership updates go through Enroll
// so the array never gains duplicates.
type Course struct {
	types.BaseModel

	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Content      string         `gorm:"type:text" json:"content"`
	Image        *string        `gorm:"type:text" json:"image"`
	InstructorID uuid.UUID      `gorm:"type:uuid;not null;column:instructor_id;index" json:"instructorId"`
	Students     pq.StringArray `gorm:"type:uuid[];not null;default:'{}'" json:"students"`

	// Instructor carries the fullname-only projection for list and detail
	// responses. It is populated via Preload, never written.
	Instructor *InstructorSummary `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// InstructorSummary is the read-side projection of the owning instructor:
// fullname only, no email, no role.
type InstructorSummary struct {
	ID       uuid.UUID `gorm:"column:id" json:"id"`
	FullName string    `gorm:"column:full_name" json:"fullname"`
}

func (InstructorSummary) TableName() string { return "users" }

// StudentSummary is the roster projection: fullname and email.
type StudentSummary struct {
	ID       uuid.UUID `gorm:"column:id" json:"id"`
	FullName string    `gorm:"column:full_name" json:"fullname"`
	Email    string    `gorm:"column:email" json:"email"`
}

func (StudentSummary) TableName() string { return "users" }

// CreateInput carries data for creating a new course.
type CreateInput struct {
	Name         string
	Description  string
	Content      string
	Image        *string
	InstructorID uuid.UUID
}

// UpdateInput captures the allow-listed mutable fields. Pointer fields with
// "Provided" flags distinguish "set to empty" from "not supplied".
type UpdateInput struct {
	Name            *string
	DescProvided    bool
	Description     *string
	ContentProvided bool
	Content         *string
	ImageProvided   bool
	Image           *string
}

func withInstructor(db *gorm.DB) *gorm.DB {
	return db.Preload("Instructor", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "full_name")
	})
}

// List retrieves all courses with the instructor projection.
func List(db *gorm.DB) ([]Course, error) {
	courses := make([]Course, 0)
	err := withInstructor(db).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

// ListEnrolled retrieves courses whose roster contains the given user.
func ListEnrolled(db *gorm.DB, userID uuid.UUID) ([]Course, error) {
	courses := make([]Course, 0)
	err := withInstructor(db).
		Where("?::uuid = ANY(students)", userID).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

// ListByInstructor retrieves courses owned by the given instructor.
func ListByInstructor(db *gorm.DB, instructorID uuid.UUID) ([]Course, error) {
	courses := make([]Course, 0)
	err := withInstructor(db).
		Where("instructor_id = ?", instructorID).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

// Get retrieves a course by ID with the instructor projection.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var crs Course
	if err := withInstructor(db).First(&crs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}
	return crs, nil
}

// Roster returns the enrolled students for a course projected to fullname
// and email. Entries matching the course's own instructor are filtered out
// of the view; the stored roster is left untouched.
func Roster(db *gorm.DB, id uuid.UUID) ([]StudentSummary, error) {
	crs, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	students := make([]StudentSummary, 0)
	if len(crs.Students) == 0 {
		return students, nil
	}

	if err := db.Model(&StudentSummary{}).
		Select("id", "full_name", "email").
		Where("id::text IN ?", []string(crs.Students)).
		Order("full_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	filtered := students[:0]
	for _, student := range students {
		if student.ID == crs.InstructorID {
			continue
		}
		filtered = append(filtered, student)
	}

	return filtered, nil
}

// Create inserts a new course owned by the given instructor with an empty
// roster.
func Create(db *gorm.DB, input CreateInput) (Course, error) {
	if input.Name == "" {
		return Course{}, ErrNameRequired
	}

	crs := Course{
		Name:         input.Name,
		Description:  input.Description,
		Content:      input.Content,
		Image:        input.Image,
		InstructorID: input.InstructorID,
		Students:     pq.StringArray{},
	}

	if err := db.Create(&crs).Error; err != nil {
		return Course{}, err
	}

	return Get(db, crs.ID)
}

// Enroll appends the user to the course roster. The append happens in a
// single statement guarded by a NOT-a-member predicate, so concurrent calls
// for the same (user, course) pair cannot produce a duplicate entry.
func Enroll(db *gorm.DB, id, userID uuid.UUID) (Course, error) {
	result := db.Model(&Course{}).
		Where("id = ? AND NOT (?::uuid = ANY(students))", id, userID).
		Update("students", gorm.Expr("array_append(students, ?::uuid)", userID))
	if result.Error != nil {
		return Course{}, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the course is missing or the user is already on the roster.
		if _, err := Get(db, id); err != nil {
			return Course{}, err
		}
		return Course{}, ErrAlreadyEnrolled
	}

	return Get(db, id)
}

// Update applies allow-listed field changes. Ownership is deliberately not
// checked here: any instructor may update any course, while Delete is
// restricted to the owner.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Course, error) {
	if _, err := Get(db, id); err != nil {
		return Course{}, err
	}

	// The UPDATE is restricted to the allow-listed columns so a concurrent
	// enroll touching the roster array is never overwritten.
	changes := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			return Course{}, ErrNameRequired
		}
		changes["name"] = *input.Name
	}

	if input.DescProvided && input.Description != nil {
		changes["description"] = *input.Description
	}

	if input.ContentProvided && input.Content != nil {
		changes["content"] = *input.Content
	}

	if input.ImageProvided {
		changes["image"] = input.Image
	}

	if len(changes) > 0 {
		if err := db.Model(&Course{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return Course{}, err
		}
	}

	return Get(db, id)
}

// Delete removes a course permanently.
func Delete(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
