package itinerary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/S-yujin/Gildam/internal/api"
	"github.com/S-yujin/Gildam/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Generate handles POST /api/v1/itinerary/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GenerateItinerary").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))
	l.DebugContext(ctx, "Generate itinerary handler invoked")

	var req types.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		l.ErrorContext(ctx, "Request validation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrNoCandidates) || errors.Is(err, types.ErrCatalogLoad) {
			l.ErrorContext(ctx, "Generation failed with no data", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "일정 생성 실패")
			return
		}
		l.ErrorContext(ctx, "Generation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "일정 생성 실패")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
