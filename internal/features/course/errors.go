package course

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrNameRequired    = errors.New("course name is required")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)
