package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
	"github.com/PurpleDrip/Travel-Planner/internal/observability/metrics"
)

var _ ItineraryRepo = (*PostgresItineraryRepo)(nil)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ItineraryRepo persists itinerary records. Every read and write is scoped by
// the owning user; a record owned by someone else behaves exactly like a
// record that does not exist.
type ItineraryRepo interface {
	Create(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error)
	Update(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type PostgresItineraryRepo struct {
	logger *zap.Logger
	pgpool PgxPool
}

func NewPostgresItineraryRepo(pgpool PgxPool, logger *zap.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const itineraryColumns = `id, user_id, destination, start_date, end_date, preferences, generated_plan, created_at, updated_at`

// Create implements ItineraryRepo.
func (r *PostgresItineraryRepo) Create(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error) {
	tracer := otel.Tracer("TravelPlanner")
	ctx, span := tracer.Start(ctx, "PostgresItineraryRepo.Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.statement", "INSERT INTO itineraries ..."),
	))
	defer span.End()

	planJSON, err := marshalPlan(itin.GeneratedPlan)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to encode generated plan: %w", err)
	}

	query := `INSERT INTO itineraries (user_id, destination, start_date, end_date, preferences, generated_plan)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	start := time.Now()
	err = r.pgpool.QueryRow(ctx, query,
		itin.UserID, itin.Destination, itin.StartDate, itin.EndDate, itin.Preferences, planJSON,
	).Scan(&itin.ID, &itin.CreatedAt, &itin.UpdatedAt)
	r.observeQuery(ctx, "create", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		r.logger.Error("Error inserting itinerary", zap.Error(err), zap.String("userID", itin.UserID.String()))
		return nil, fmt.Errorf("database error creating itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary created")
	return itin, nil
}

// ListByUser implements ItineraryRepo. Newest-created first.
func (r *PostgresItineraryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE user_id = $1 ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, query, userID)
	r.observeQuery(ctx, "list", start, err)
	if err != nil {
		r.logger.Error("Error listing itineraries", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("database error listing itineraries: %w", err)
	}
	defer rows.Close()

	itineraries := make([]models.Itinerary, 0)
	for rows.Next() {
		itin, err := scanItinerary(rows)
		if err != nil {
			r.logger.Error("Error scanning itinerary row", zap.Error(err))
			return nil, fmt.Errorf("database error scanning itinerary: %w", err)
		}
		itineraries = append(itineraries, *itin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading itineraries: %w", err)
	}

	return itineraries, nil
}

// GetByID implements ItineraryRepo. A record that exists but belongs to a
// different user returns ErrNotFound, not ErrForbidden.
func (r *PostgresItineraryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = $1 AND user_id = $2`

	start := time.Now()
	row := r.pgpool.QueryRow(ctx, query, id, userID)
	itin, err := scanItinerary(row)
	r.observeQuery(ctx, "get", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary %s not found: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching itinerary", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("database error fetching itinerary: %w", err)
	}

	return itin, nil
}

// Update implements ItineraryRepo. The generated plan column is never touched
// here; last write wins for the mutable fields.
func (r *PostgresItineraryRepo) Update(ctx context.Context, itin *models.Itinerary) (*models.Itinerary, error) {
	query := `UPDATE itineraries
		SET destination = $1, start_date = $2, end_date = $3, preferences = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`

	start := time.Now()
	err := r.pgpool.QueryRow(ctx, query,
		itin.Destination, itin.StartDate, itin.EndDate, itin.Preferences, itin.ID, itin.UserID,
	).Scan(&itin.UpdatedAt)
	r.observeQuery(ctx, "update", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary %s not found: %w", itin.ID, models.ErrNotFound)
		}
		r.logger.Error("Error updating itinerary", zap.Error(err), zap.String("id", itin.ID.String()))
		return nil, fmt.Errorf("database error updating itinerary: %w", err)
	}

	return itin, nil
}

// Delete implements ItineraryRepo.
func (r *PostgresItineraryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, query, id, userID)
	r.observeQuery(ctx, "delete", start, err)
	if err != nil {
		r.logger.Error("Error deleting itinerary", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("database error deleting itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary %s not found: %w", id, models.ErrNotFound)
	}

	return nil
}

func (r *PostgresItineraryRepo) observeQuery(ctx context.Context, operation string, start time.Time, err error) {
	m := metrics.Get()
	m.DBQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("operation", operation)))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DBQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// scanItinerary reads one itinerary row, decoding the plan blob if present.
func scanItinerary(row pgx.Row) (*models.Itinerary, error) {
	var itin models.Itinerary
	var planJSON []byte
	err := row.Scan(&itin.ID, &itin.UserID, &itin.Destination, &itin.StartDate, &itin.EndDate,
		&itin.Preferences, &planJSON, &itin.CreatedAt, &itin.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(planJSON) > 0 {
		var plan models.GeneratedPlan
		if err := json.Unmarshal(planJSON, &plan); err != nil {
			return nil, fmt.Errorf("failed to decode stored plan: %w", err)
		}
		itin.GeneratedPlan = &plan
	}

	return &itin, nil
}

func marshalPlan(plan *models.GeneratedPlan) ([]byte, error) {
	if plan == nil {
		return nil, nil
	}
	return json.Marshal(plan)
}
