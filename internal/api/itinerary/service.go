// Package itinerary orchestrates one generation request: candidate
// selection, prompt rendering, the model call with retry and backoff,
// parsing, validation, route optimization and the deterministic fallback.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/S-yujin/Gildam/app/observability/metrics"
	"github.com/S-yujin/Gildam/internal/api/candidate"
	"github.com/S-yujin/Gildam/internal/api/catalog"
	"github.com/S-yujin/Gildam/internal/api/route"
	"github.com/S-yujin/Gildam/internal/types"
)

// Options bound the retry loop and parameterize the model call.
type Options struct {
	MaxAttempts     int
	Backoff         time.Duration
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultOptions match the production configuration: three attempts with a
// 35 second backoff, and a fairly creative sampling setup bounded to one
// JSON itinerary worth of tokens.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:     3,
		Backoff:         35 * time.Second,
		Temperature:     0.8,
		TopP:            0.95,
		MaxOutputTokens: 2048,
	}
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary generation.
type Service interface {
	Generate(ctx context.Context, req types.TripRequest) (*types.Itinerary, error)
}

// completionClient is the slice of the AI client the service needs.
type completionClient interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger      *slog.Logger
	catalogRepo catalog.Repository
	selector    candidate.Selector
	aiClient    completionClient
	opts        Options

	// sleep is swapped out in tests so retry backoff does not block.
	sleep func(time.Duration)
}

// NewService creates a new itinerary generation service instance.
func NewService(catalogRepo catalog.Repository, selector candidate.Selector,
	aiClient completionClient, logger *slog.Logger, opts Options) *ServiceImpl {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &ServiceImpl{
		logger:      logger,
		catalogRepo: catalogRepo,
		selector:    selector,
		aiClient:    aiClient,
		opts:        opts,
		sleep:       time.Sleep,
	}
}

// Generate runs the full pipeline for one trip request. It returns an error
// only when no candidates can be built; once candidates exist the caller
// always receives a structurally valid itinerary, falling back to a
// deterministic one when every model attempt fails.
func (s *ServiceImpl) Generate(ctx context.Context, req types.TripRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("itinerary-service").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("trip.days", req.Days))

	l := s.logger.With(
		slog.String("start", req.Start),
		slog.String("end", req.End),
		slog.Int("days", req.Days),
	)
	l.InfoContext(ctx, "itinerary generation started",
		slog.Any("emotions", req.Emotions), slog.Any("themes", req.Themes))

	m := metrics.Get()
	m.GenerationRequestsTotal.Add(ctx, 1)
	startedAt := time.Now()
	defer func() {
		m.GenerationDurationSeconds.Record(ctx, time.Since(startedAt).Seconds())
	}()

	candidates := s.selector.Select(s.catalogRepo.Places(), req.Themes, req.Days)
	if len(candidates) == 0 {
		l.ErrorContext(ctx, "no candidates for request")
		return nil, fmt.Errorf("%w: themes %v", types.ErrNoCandidates, req.Themes)
	}

	prompt := BuildPrompt(req, candidates)
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](s.opts.Temperature),
		TopP:            genai.Ptr[float32](s.opts.TopP),
		MaxOutputTokens: s.opts.MaxOutputTokens,
	}

	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			l.InfoContext(ctx, "waiting before retry", slog.Duration("backoff", s.opts.Backoff))
			s.sleep(s.opts.Backoff)
		}
		m.GenerationAttemptsTotal.Add(ctx, 1)
		al := l.With(slog.Int("attempt", attempt))

		text, err := s.aiClient.GenerateContent(ctx, prompt, config)
		if err != nil {
			if errors.Is(err, types.ErrRateLimited) {
				m.RateLimitHitsTotal.Add(ctx, 1)
				al.WarnContext(ctx, "completion service rate limited", slog.Any("error", err))
			} else {
				al.ErrorContext(ctx, "completion call failed", slog.Any("error", err))
			}
			continue
		}

		raw, err := ParseResponse(text)
		if err != nil {
			al.WarnContext(ctx, "response parse failed", slog.Any("error", err))
			continue
		}
		if err := ValidateResponse(raw, req.Days); err != nil {
			al.WarnContext(ctx, "response validation failed", slog.Any("error", err))
			continue
		}

		result, err := DecodeItinerary(raw)
		if err != nil {
			al.WarnContext(ctx, "response decode failed", slog.Any("error", err))
			continue
		}

		s.optimizeDays(result)
		result.ID = uuid.New()
		al.InfoContext(ctx, "itinerary generated", slog.Int("days", len(result.Itinerary)))
		return result, nil
	}

	l.WarnContext(ctx, "all attempts failed, serving fallback itinerary")
	m.FallbacksTotal.Add(ctx, 1)

	result := buildFallback(req, candidates, l)
	s.optimizeDays(result)
	result.ID = uuid.New()
	return result, nil
}

// optimizeDays applies the route optimizer to every day in place.
func (s *ServiceImpl) optimizeDays(it *types.Itinerary) {
	for i := range it.Itinerary {
		day := &it.Itinerary[i]
		day.Places = route.AnnotateTravel(route.OptimizeDay(day.Places))
	}
}
