package course

import (
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/internal/middleware"
	"github.com/eduspace/course-server-go/pkg/request"
	"github.com/eduspace/course-server-go/pkg/response"
	"github.com/eduspace/course-server-go/pkg/storage"
	"github.com/eduspace/course-server-go/pkg/types"
)

// Handler processes course HTTP requests.
type Handler struct {
	db      *gorm.DB
	logger  *slog.Logger
	uploads *storage.LocalStore
}

// NewHandler constructs a course handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, uploads *storage.LocalStore) *Handler {
	return &Handler{
		db:      db,
		logger:  logger,
		uploads: uploads,
	}
}

// List returns all courses with the instructor projected to fullname.
func (h *Handler) List(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}

	courses, err := List(h.db)
	if err != nil {
		h.respondError(c, err, "Error fetching courses")
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// Enrolled returns the courses whose roster contains the calling user.
func (h *Handler) Enrolled(c *gin.Context) {
	usr, ok := h.principal(c)
	if !ok {
		return
	}

	courses, err := ListEnrolled(h.db, usr.ID)
	if err != nil {
		h.respondError(c, err, "Error fetching enrolled courses")
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// MyCourses returns the calling instructor's own courses.
func (h *Handler) MyCourses(c *gin.Context) {
	usr, ok := h.requireInstructor(c)
	if !ok {
		return
	}

	courses, err := ListByInstructor(h.db, usr.ID)
	if err != nil {
		h.respondError(c, err, "Error fetching courses")
		return
	}

	response.JSON(c, http.StatusOK, courses)
}

// GetByID fetches a single course. Any authenticated user may fetch any
// course.
func (h *Handler) GetByID(c *gin.Context) {
	if _, ok := h.principal(c); !ok {
		return
	}

	id, ok := h.courseID(c)
	if !ok {
		return
	}

	crs, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "Error fetching course")
		return
	}

	response.JSON(c, http.StatusOK, crs)
}

// Students returns the enrolled students for a course, projected to fullname
// and email. Open to any instructor, not just the owner.
func (h *Handler) Students(c *gin.Context) {
	if _, ok := h.requireInstructor(c); !ok {
		return
	}

	id, ok := h.courseID(c)
	if !ok {
		return
	}

	students, err := Roster(h.db, id)
	if err != nil {
		h.respondError(c, err, "Error fetching enrolled students")
		return
	}

	response.JSON(c, http.StatusOK, students)
}

// Create inserts a new course owned by the calling instructor. The body is
// multipart form data with an optional image file.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := h.requireInstructor(c)
	if !ok {
		return
	}

	name := c.PostForm("name")
	description := c.PostForm("description")
	content := c.PostForm("content")

	var image *string
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		publicPath, saveErr := h.uploads.SaveUpload(fileHeader)
		if saveErr != nil {
			_ = c.Error(saveErr)
			return
		}
		image = &publicPath
	}

	crs, err := Create(h.db, CreateInput{
		Name:         name,
		Description:  description,
		Content:      content,
		Image:        image,
		InstructorID: usr.ID,
	})
	if err != nil {
		if image != nil {
			if removeErr := h.uploads.Remove(*image); removeErr != nil {
				h.logger.Warn("failed to remove upload for unsaved course",
					slog.String("path", *image), slog.String("error", removeErr.Error()))
			}
		}
		h.respondError(c, err, "Error creating course")
		return
	}

	response.Created(c, "Course created successfully", "course", crs)
}

// Enroll adds the calling user to a course roster. Enrollment is open to any
// role; a second attempt by the same user is rejected.
func (h *Handler) Enroll(c *gin.Context) {
	usr, ok := h.principal(c)
	if !ok {
		return
	}

	id, ok := h.courseID(c)
	if !ok {
		return
	}

	crs, err := Enroll(h.db, id, usr.ID)
	if err != nil {
		h.respondError(c, err, "Error enrolling in course")
		return
	}

	response.Resource(c, http.StatusOK, "Enrolled successfully", "course", crs)
}

// Update applies allow-listed field changes to a course. Any instructor may
// update any course; ownership is only enforced on delete.
func (h *Handler) Update(c *gin.Context) {
	if _, ok := h.requireInstructor(c); !ok {
		return
	}

	id, ok := h.courseID(c)
	if !ok {
		return
	}

	body := map[string]interface{}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid course payload", err)
		return
	}

	input, err := updateInputFromBody(body)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
		return
	}

	crs, err := Update(h.db, id, input)
	if err != nil {
		h.respondError(c, err, "Error updating course")
		return
	}

	response.Resource(c, http.StatusOK, "Course updated successfully", "course", crs)
}

// Delete removes a course. Only the owning instructor may delete it.
func (h *Handler) Delete(c *gin.Context) {
	usr, ok := h.requireInstructor(c)
	if !ok {
		return
	}

	id, ok := h.courseID(c)
	if !ok {
		return
	}

	crs, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "Error deleting course")
		return
	}

	if crs.InstructorID != usr.ID {
		response.Error(c, http.StatusForbidden, "You can only delete your own courses", nil)
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "Error deleting course")
		return
	}

	response.Message(c, http.StatusOK, "Course deleted successfully")
}

// updateInputFromBody extracts the allow-listed fields from a loosely typed
// body. Unknown keys are ignored; they are never forwarded to the entity.
func updateInputFromBody(body map[string]interface{}) (UpdateInput, error) {
	input := UpdateInput{}

	if value, ok := body["name"]; ok {
		str, err := request.ReadString(value)
		if err != nil {
			return input, errors.New("name must be a string")
		}
		input.Name = &str
	}

	if value, ok := body["description"]; ok {
		input.DescProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				return input, errors.New("description must be a string")
			}
			input.Description = &str
		}
	}

	if value, ok := body["content"]; ok {
		input.ContentProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				return input, errors.New("content must be a string")
			}
			input.Content = &str
		}
	}

	if value, ok := body["image"]; ok {
		input.ImageProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				return input, errors.New("image must be a string")
			}
			input.Image = &str
		}
	}

	return input, nil
}

// principal loads the authenticated user or ends the request with 401.
func (h *Handler) principal(c *gin.Context) (*user.User, bool) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return nil, false
	}
	return usr, true
}

// requireInstructor ends the request with 403 unless the caller holds the
// instructor role.
func (h *Handler) requireInstructor(c *gin.Context) (*user.User, bool) {
	usr, ok := h.principal(c)
	if !ok {
		return nil, false
	}

	switch usr.UserType {
	case types.UserTypeInstructor:
		return usr, true
	case types.UserTypeStudent:
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		return nil, false
	default:
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		return nil, false
	}
}

func (h *Handler) courseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid course id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found", err)
	case errors.Is(err, ErrAlreadyEnrolled):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Already enrolled in this course", err)
	case errors.Is(err, ErrNameRequired):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Course name is required", err)
	default:
		// Unmapped errors are deferred to the request error middleware.
		_ = c.Error(fmt.Errorf("%s: %w", fallback, err))
	}
}
