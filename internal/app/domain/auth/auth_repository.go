package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuthRepo interface {
	// GetUserByEmail fetches user details needed for credential validation.
	GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error)
	// GetUserByID fetches user details by ID.
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	// Register stores a new user with a HASHED password. Returns new user ID.
	Register(ctx context.Context, username, email, hashedPassword string) (string, error)
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	pgpool PgxPool
}

func NewPostgresAuthRepo(pgpool PgxPool, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetUserByEmail implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	var user models.UserAuth
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

// GetUserByID implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	var user models.UserAuth
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by ID", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return &user, nil
}

// Register implements auth.AuthRepo. Expects HASHED password.
func (r *PostgresAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	tracer := otel.Tracer("TravelPlanner")

	ctx, span := tracer.Start(ctx, "PostgresAuthRepo.Register", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.statement", "INSERT INTO users ..."),
	))
	defer span.End()

	var userID string
	userQuery := `INSERT INTO users (username, email, password_hash, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.pgpool.QueryRow(ctx, userQuery, username, email, hashedPassword, time.Now()).Scan(&userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("email or username already exists: %w", models.ErrConflict)
		}
		r.logger.Error("Error inserting user", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("database error registering user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	r.logger.Info("User registered successfully", zap.String("userID", userID))
	return userID, nil
}
