package auth

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
	"github.com/PurpleDrip/Travel-Planner/internal/observability/metrics"
	"github.com/PurpleDrip/Travel-Planner/internal/pkg/config"
)

const minPasswordLength = 6

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.UserAuth, error)
	Login(ctx context.Context, email, password string) (token string, user *models.UserAuth, err error)
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	JWTConfig() JWTConfig
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	cfg    *config.Config
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, cfg: cfg}
}

// Register validates the registration fields, hashes the password and stores
// the user. The plaintext password is never retained.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (*models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	tracer := otel.Tracer("TravelPlanner")
	ctx, span := tracer.Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", models.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address: %w", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, models.ErrValidation)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("could not process password: %w", models.ErrInternal)
	}

	userID, err := s.repo.Register(ctx, username, email, string(hashedPasswordBytes))
	if err != nil {
		l.Warn("Repository registration failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return nil, err
	}

	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "register")))

	l.Info("Registration successful", zap.String("userID", userID))
	span.SetStatus(codes.Ok, "User registered")
	return &models.UserAuth{ID: userID, Username: username, Email: email}, nil
}

// Login validates credentials and issues a bearer token. Unknown email and
// wrong password produce the identical error so callers cannot tell which
// one failed.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	if email == "" || password == "" {
		return "", nil, fmt.Errorf("email and password are required: %w", models.ErrValidation)
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		l.Warn("GetUserByEmail failed")
		// Don't reveal if user exists or password is wrong
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := NewJWTService().GenerateToken(s.JWTConfig(), user.ID, user.Email, user.Username)
	if err != nil {
		l.Error("Failed to generate token", zap.String("userID", user.ID), zap.Error(err))
		return "", nil, fmt.Errorf("app error generating token: %w", models.ErrInternal)
	}

	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "login")))

	l.Info("Login successful")
	return token, user, nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	l := s.logger.With(zap.String("method", "GetUserByID"), zap.String("userID", userID))
	l.Debug("Fetching user by ID")
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Warn("Failed to fetch user by ID", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// JWTConfig exposes the token settings used for both issuing and verifying.
func (s *AuthServiceImpl) JWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       s.cfg.JWT.SecretKey,
		TokenExpiration: s.cfg.JWT.AccessTokenTTL,
		Issuer:          s.cfg.JWT.Issuer,
		Audience:        s.cfg.JWT.Audience,
		Logger:          s.logger,
	}
}
