package auth

import (
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/internal/middleware"
	"github.com/eduspace/course-server-go/pkg/config"
	"github.com/eduspace/course-server-go/pkg/response"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
}

// NewHandler constructs an auth handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		FullName string `json:"fullname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid registration payload", err)
		return
	}

	authResp, err := Register(h.db, RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, h.tokenConfig())
	if err != nil {
		h.respondError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "auth": authResp})
}

// Login authenticates a user and returns JWT tokens.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid login payload", err)
		return
	}

	authResp, err := Login(h.db, LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, h.tokenConfig())
	if err != nil {
		h.respondError(c, err, "Login failed")
		return
	}

	response.JSON(c, http.StatusOK, authResp)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "Invalid refresh payload", err)
		return
	}

	authResp, err := Refresh(h.db, req.RefreshToken, h.tokenConfig())
	if err != nil {
		h.respondError(c, err, "Token refresh failed")
		return
	}

	response.JSON(c, http.StatusOK, authResp)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	response.JSON(c, http.StatusOK, usr)
}

func (h *Handler) tokenConfig() TokenConfig {
	return TokenConfig{
		JWTSecret:          h.cfg.JWTSecret,
		JWTRefreshSecret:   h.cfg.JWTRefreshSecret,
		AccessTokenExpiry:  h.cfg.AccessTokenExpiry,
		RefreshTokenExpiry: h.cfg.RefreshTokenExpiry,
	}
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrInvalidRole):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, user.ErrEmailTaken):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, err.Error(), err)
	default:
		// Unmapped errors are deferred to the request error middleware.
		_ = c.Error(fmt.Errorf("%s: %w", fallback, err))
	}
}
