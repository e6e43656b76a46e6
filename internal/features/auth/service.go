package auth

import (
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/eduspace/course-server-go/internal/features/user"
	"github.com/eduspace/course-server-go/internal/utils/jwt"
	"github.com/eduspace/course-server-go/pkg/types"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

type TokenConfig struct {
	JWTSecret          string
	JWTRefreshSecret   string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register creates a new account with the requested role. The role defaults
// to student when omitted.
func Register(db *gorm.DB, input RegisterInput, cfg TokenConfig) (*AuthResponse, error) {
	if input.FullName == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	if !emailRegex.MatchString(input.Email) {
		return nil, ErrInvalidEmail
	}

	if len(input.Password) < 8 {
		return nil, ErrWeakPassword
	}

	role := types.UserTypeStudent
	if input.Role != "" {
		parsed, err := types.ParseUserType(input.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	newUser, err := user.Create(db, user.CreateInput{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
		UserType: role,
	})
	if err != nil {
		return nil, err
	}

	return issueTokens(&newUser, cfg)
}

// Login authenticates a user and returns tokens.
func Login(db *gorm.DB, input LoginInput, cfg TokenConfig) (*AuthResponse, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	usr, err := user.GetByEmail(db, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !usr.ComparePassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	return issueTokens(&usr, cfg)
}

// Refresh exchanges a valid refresh token for a new token pair.
func Refresh(db *gorm.DB, refreshToken string, cfg TokenConfig) (*AuthResponse, error) {
	claims, err := jwt.VerifyToken(refreshToken, cfg.JWTRefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	usr, err := user.Get(db, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return issueTokens(&usr, cfg)
}

func issueTokens(usr *user.User, cfg TokenConfig) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(usr.ID, cfg.JWTSecret, cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(usr.ID, cfg.JWTRefreshSecret, cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         usr,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
