package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
	"github.com/PurpleDrip/Travel-Planner/internal/observability/metrics"
	"github.com/PurpleDrip/Travel-Planner/internal/pkg/config"
)

func TestMain(m *testing.M) {
	// Instruments come from the global (noop) meter provider in tests.
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	args := m.Called(ctx, username, email, hashedPassword)
	return args.String(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:      "test-access-secret",
			AccessTokenTTL: 7 * 24 * time.Hour,
			Issuer:         "test-issuer",
			Audience:       "test-audience",
		},
	}
}

func TestRegister(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		// The repository must receive a bcrypt hash, never the plaintext.
		// The service starts a trace span, so the repo sees a derived context.
		mockRepo.On("Register", mock.Anything, "alice", "alice@x.com", mock.MatchedBy(func(hash string) bool {
			return hash != "secret1" && bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")) == nil
		})).Return("user123", nil)

		user, err := service.Register(ctx, "alice", "alice@x.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "user123", user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@x.com", user.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NormalizesEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("Register", mock.Anything, "alice", "alice@x.com", mock.AnythingOfType("string")).Return("user123", nil)

		user, err := service.Register(ctx, " alice ", " Alice@X.com ", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "alice@x.com", user.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, err := service.Register(context.Background(), "", "alice@x.com", "secret1")
		assert.ErrorIs(t, err, models.ErrValidation)
		mockRepo.AssertNotCalled(t, "Register")
	})

	t.Run("PasswordTooShort", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, err := service.Register(context.Background(), "alice", "alice@x.com", "short")
		assert.ErrorIs(t, err, models.ErrValidation)
		mockRepo.AssertNotCalled(t, "Register")
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, err := service.Register(context.Background(), "alice", "not-an-email", "secret1")
		assert.ErrorIs(t, err, models.ErrValidation)
		mockRepo.AssertNotCalled(t, "Register")
	})

	t.Run("Conflict", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("Register", mock.Anything, "alice", "alice@x.com", mock.AnythingOfType("string")).
			Return("", models.ErrConflict)

		_, err := service.Register(ctx, "alice", "alice@x.com", "secret1")
		assert.ErrorIs(t, err, models.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		assert.NoError(t, err)

		user := &models.UserAuth{
			ID:           "user123",
			Username:     "testuser",
			Email:        "test@example.com",
			PasswordHash: string(hashedPassword),
		}
		mockRepo.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil)

		token, loggedIn, err := service.Login(ctx, "test@example.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user123", loggedIn.ID)

		// Issued token must verify and carry the user id.
		claims, err := NewJWTService().ValidateToken(service.JWTConfig(), token)
		assert.NoError(t, err)
		assert.Equal(t, "user123", claims.UserID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownEmailAndWrongPasswordAreIdentical", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		assert.NoError(t, err)

		user := &models.UserAuth{
			ID:           "user123",
			Email:        "known@example.com",
			PasswordHash: string(hashedPassword),
		}
		mockRepo.On("GetUserByEmail", ctx, "known@example.com").Return(user, nil)
		mockRepo.On("GetUserByEmail", ctx, "unknown@example.com").Return(nil, models.ErrNotFound)

		_, _, errWrongPassword := service.Login(ctx, "known@example.com", "wrongpass")
		_, _, errUnknownEmail := service.Login(ctx, "unknown@example.com", "password123")

		assert.ErrorIs(t, errWrongPassword, models.ErrUnauthenticated)
		assert.ErrorIs(t, errUnknownEmail, models.ErrUnauthenticated)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)

		_, _, err := service.Login(context.Background(), "", "")
		assert.ErrorIs(t, err, models.ErrValidation)
		mockRepo.AssertNotCalled(t, "GetUserByEmail")
	})
}
