package middleware

import (
	"errors"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/internal/utils/jwt"
	"github.com/eduspace/course-server-go/pkg/response"
)

const userContextKey = "user"

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
	logger    *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(db *gorm.DB, jwtSecret string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// AuthenticateToken validates the bearer token and loads the user into the
// request context. Handlers behind it can assume a principal exists.
func (m *AuthMiddleware) AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (*user.User, bool) {
	token, ok := bearerToken(c)
	if !ok {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		c.Abort()
		return nil, false
	}

	claims, err := jwt.VerifyToken(token, m.jwtSecret)
	if err != nil {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Invalid or expired token", err)
		c.Abort()
		return nil, false
	}

	usr, err := user.Get(m.db, claims.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Error loading user"
		if errors.Is(err, user.ErrUserNotFound) {
			status = http.StatusUnauthorized
			message = "Authentication required"
		}
		response.ErrorWithLog(m.logger, c, status, message, err)
		c.Abort()
		return nil, false
	}

	SetUserInContext(c, &usr)
	return &usr, true
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// SetUserInContext stores the authenticated user on the Gin context.
func SetUserInContext(c *gin.Context, usr *user.User) {
	c.Set(userContextKey, usr)
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}

	usr, ok := value.(*user.User)
	if !ok || usr == nil {
		return nil, false
	}

	return usr, true
}
