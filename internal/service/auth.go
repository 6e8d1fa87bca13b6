package service

import (
	"context"
	"strings"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the storage the auth service needs
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *model.User) error
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(userID uint, username, role string) (string, error)
}

// LoginResult is returned on a successful login
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService checks credentials and issues tokens. It makes no authorization decisions.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthService creates the auth service
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the password against the stored bcrypt hash and returns a signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordAuthAttempt()

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if apperror.IsNotFound(err) {
		log.Warn("User not found", zap.String("username", username))
		prometheus.RecordAuthError("user_not_found")
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if user.Status != model.StatusActive {
		log.Warn("Inactive user tried to log in", zap.String("username", username))
		prometheus.RecordAuthError("user_inactive")
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Warn("Invalid password", zap.String("username", username))
		prometheus.RecordAuthError("invalid_password")
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, errors.Wrap(err, "generate token")
	}

	log.Info("User logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	return &LoginResult{Token: token, User: user}, nil
}

// Register creates a login with a bcrypt hashed password; role defaults to employee
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if len(password) < 6 {
		fields["password"] = "must be at least 6 characters"
	}
	role = defaultString(role, model.RoleEmployee)
	if role != model.RoleAdmin && role != model.RoleEmployee {
		fields["role"] = "must be one of ADMIN EMPLEADO"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("invalid registration", fields)
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		prometheus.RecordAuthError("username_already_exists")
		return nil, apperror.Conflict("username %s already registered", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		prometheus.RecordAuthError("password_hash_failed")
		return nil, errors.Wrap(err, "hash password")
	}

	user := &model.User{Username: username, Password: string(hash), Role: role, Status: model.StatusActive}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("User registered", zap.String("username", username), zap.String("role", role))
	return user, nil
}
