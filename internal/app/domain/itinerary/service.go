package itinerary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
)

const dateLayout = "2006-01-02"

// Ensure implementation satisfies the interface
var _ ItineraryService = (*ItineraryServiceImpl)(nil)

// CreateItineraryRequest carries the raw generation inputs. Dates arrive as
// strings and are validated here, before any external call is made.
type CreateItineraryRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Preferences string `json:"preferences"`
}

// UpdateItineraryRequest carries a partial update. Nil means "no change";
// generatedPlan is never regenerated by update.
type UpdateItineraryRequest struct {
	Destination *string `json:"destination"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Preferences *string `json:"preferences"`
}

// ItineraryService defines the business logic contract.
type ItineraryService interface {
	CreateItinerary(ctx context.Context, ownerID uuid.UUID, req CreateItineraryRequest) (*models.Itinerary, error)
	ListItineraries(ctx context.Context, ownerID uuid.UUID) ([]models.Itinerary, error)
	GetItinerary(ctx context.Context, ownerID, id uuid.UUID) (*models.Itinerary, error)
	UpdateItinerary(ctx context.Context, ownerID, id uuid.UUID, req UpdateItineraryRequest) (*models.Itinerary, error)
	DeleteItinerary(ctx context.Context, ownerID, id uuid.UUID) error
}

// ItineraryServiceImpl orchestrates validation, plan generation and storage.
type ItineraryServiceImpl struct {
	logger    *zap.Logger
	repo      ItineraryRepo
	generator PlanGenerator
}

// NewItineraryService creates a new itinerary service instance.
func NewItineraryService(repo ItineraryRepo, generator PlanGenerator, logger *zap.Logger) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{logger: logger, repo: repo, generator: generator}
}

// CreateItinerary validates the request, generates a plan and persists the
// result. Validation failures short-circuit before the generator is called.
func (s *ItineraryServiceImpl) CreateItinerary(ctx context.Context, ownerID uuid.UUID, req CreateItineraryRequest) (*models.Itinerary, error) {
	l := s.logger.With(zap.String("method", "CreateItinerary"), zap.String("ownerID", ownerID.String()))
	l.Debug("Creating itinerary", zap.String("destination", req.Destination))

	tracer := otel.Tracer("TravelPlanner")
	ctx, span := tracer.Start(ctx, "ItineraryService.CreateItinerary", trace.WithAttributes(
		attribute.String("destination", req.Destination),
	))
	defer span.End()

	destination := strings.TrimSpace(req.Destination)
	if destination == "" || req.StartDate == "" || req.EndDate == "" {
		return nil, fmt.Errorf("destination, start date, and end date are required: %w", models.ErrValidation)
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	// Every create calls the model, even for identical inputs. Two identical
	// requests mean two independent generations and two stored records.
	plan, err := s.generator.GeneratePlan(ctx, destination, startDate, endDate, req.Preferences)
	if err != nil {
		l.Warn("Plan generation failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	itin := &models.Itinerary{
		UserID:        ownerID,
		Destination:   destination,
		StartDate:     startDate,
		EndDate:       endDate,
		Preferences:   strings.TrimSpace(req.Preferences),
		GeneratedPlan: plan,
	}

	stored, err := s.repo.Create(ctx, itin)
	if err != nil {
		l.Error("Failed to persist itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Persist failed")
		return nil, err
	}

	l.Info("Itinerary created", zap.String("id", stored.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary created")
	return stored, nil
}

// ListItineraries returns the owner's itineraries, newest-created first. An
// owner with no records gets an empty slice, never an error.
func (s *ItineraryServiceImpl) ListItineraries(ctx context.Context, ownerID uuid.UUID) ([]models.Itinerary, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

// GetItinerary fetches one record under the ownership rule: an id owned by a
// different user is indistinguishable from a missing one.
func (s *ItineraryServiceImpl) GetItinerary(ctx context.Context, ownerID, id uuid.UUID) (*models.Itinerary, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// UpdateItinerary applies a partial update to the mutable fields. Concurrent
// edits follow last-write-wins; there is no optimistic-concurrency check.
func (s *ItineraryServiceImpl) UpdateItinerary(ctx context.Context, ownerID, id uuid.UUID, req UpdateItineraryRequest) (*models.Itinerary, error) {
	l := s.logger.With(zap.String("method", "UpdateItinerary"), zap.String("id", id.String()))

	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Destination != nil {
		dest := strings.TrimSpace(*req.Destination)
		if dest == "" {
			return nil, fmt.Errorf("destination cannot be empty: %w", models.ErrValidation)
		}
		existing.Destination = dest
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date format: %w", models.ErrValidation)
		}
		existing.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date format: %w", models.ErrValidation)
		}
		existing.EndDate = end
	}
	// An explicitly empty preferences string clears the field; only an
	// absent one means "no change".
	if req.Preferences != nil {
		existing.Preferences = strings.TrimSpace(*req.Preferences)
	}

	if existing.EndDate.Before(existing.StartDate) {
		return nil, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		l.Error("Failed to update itinerary", zap.Error(err))
		return nil, err
	}

	l.Info("Itinerary updated")
	return updated, nil
}

// DeleteItinerary removes the record under the same ownership rule as get.
func (s *ItineraryServiceImpl) DeleteItinerary(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// parseDateRange validates both dates and their ordering.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date format: %w", models.ErrValidation)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date format: %w", models.ErrValidation)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date: %w", models.ErrValidation)
	}
	return start, end, nil
}
