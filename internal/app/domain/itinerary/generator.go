package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/PurpleDrip/Travel-Planner/internal/app/models"
	"github.com/PurpleDrip/Travel-Planner/internal/observability/metrics"
	"github.com/PurpleDrip/Travel-Planner/internal/pkg/config"
)

// Ensure implementation satisfies the interface
var _ PlanGenerator = (*GeminiGenerator)(nil)

// PlanGenerator turns a validated travel request into a structured day-by-day
// plan. Implementations make one outbound model call per invocation; there is
// no retry and no caching, identical requests regenerate from scratch.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, destination string, startDate, endDate time.Time, preferences string) (*models.GeneratedPlan, error)
}

// GeminiGenerator generates plans by prompting a Gemini model and parsing the
// JSON it returns.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiGenerator creates the Gemini-backed plan generator.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*GeminiGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  cfg.Gemini.Model,
		logger: logger,
	}, nil
}

// GeneratePlan implements PlanGenerator. Any network, API, parse or shape
// failure is logged and surfaced as models.ErrGenerationFailed; the caller
// never sees the underlying cause.
func (g *GeminiGenerator) GeneratePlan(ctx context.Context, destination string, startDate, endDate time.Time, preferences string) (*models.GeneratedPlan, error) {
	l := g.logger.With(zap.String("method", "GeneratePlan"), zap.String("destination", destination))

	tracer := otel.Tracer("TravelPlanner")
	ctx, span := tracer.Start(ctx, "GeminiGenerator.GeneratePlan", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.String("model", g.model),
	))
	defer span.End()

	days := tripDays(startDate, endDate)
	prompt := buildPlanPrompt(destination, startDate.Format(dateLayout), endDate.Format(dateLayout), days, preferences)

	m := metrics.Get()
	start := time.Now()
	m.GenerationRequestsTotal.Add(ctx, 1)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	m.GenerationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("model", g.model)))
	if err != nil {
		m.GenerationErrorsTotal.Add(ctx, 1)
		l.Error("Gemini request failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return nil, fmt.Errorf("model call failed: %w", models.ErrGenerationFailed)
	}

	plan, err := parsePlanResponse(result.Text())
	if err != nil {
		m.GenerationErrorsTotal.Add(ctx, 1)
		l.Error("Failed to parse generated plan", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parse failed")
		return nil, fmt.Errorf("%v: %w", err, models.ErrGenerationFailed)
	}

	if len(plan.Days) != days {
		// The model is trusted to match the requested span; a mismatch is a
		// recoverable warning, not an error.
		l.Warn("Generated plan day count does not match requested span",
			zap.Int("requested", days), zap.Int("generated", len(plan.Days)))
	}

	span.SetStatus(codes.Ok, "Plan generated")
	l.Info("Plan generated", zap.Int("days", len(plan.Days)))
	return plan, nil
}

// parsePlanResponse strips markdown fences from the model output, parses it
// as JSON and checks the minimal shape: a non-empty title and at least one day.
func parsePlanResponse(text string) (*models.GeneratedPlan, error) {
	cleaned := cleanJSONResponse(text)

	var plan models.GeneratedPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if plan.Title == "" || len(plan.Days) == 0 {
		return nil, fmt.Errorf("invalid itinerary structure returned from AI")
	}

	return &plan, nil
}

// cleanJSONResponse removes markdown code blocks and surrounding whitespace.
func cleanJSONResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// tripDays is the inclusive number of whole days between start and end.
func tripDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
