package calculation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/handlers"
	"github.com/techy-Nik/final-term/internal/observability"
	"github.com/techy-Nik/final-term/internal/operations"
	"github.com/techy-Nik/final-term/internal/validation"
)

var tracer = otel.Tracer("calculation")

// Handler serves the calculation endpoints. Every route expects the auth
// middleware to have put the caller's claims in the request context.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /calculations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculation.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	userID := auth.UserIDFromContext(ctx)

	req, err := DecodeCreate(r.Body)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "create", err)
		return
	}

	start := time.Now()
	calc, err := h.svc.Create(ctx, userID, req)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "create", err)
		return
	}
	record(ctx, span, calc.Type, *calc.Result, start)

	logger.Info("calculation created",
		zap.String("calculation_id", calc.ID),
		zap.String("type", string(calc.Type)),
		zap.Stringer("result", calc.Result),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, calc)
}

// List handles GET /calculations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculation.list")
	defer span.End()

	calcs, err := h.svc.List(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "list", err)
		return
	}
	span.SetAttributes(attribute.Int("calculation.count", len(calcs)))

	handlers.WriteJSON(w, http.StatusOK, calcs)
}

// Get handles GET /calculations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculation.get",
		trace.WithAttributes(attribute.String("calculation.id", id)),
	)
	defer span.End()

	calc, err := h.svc.Get(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "get", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, calc)
}

// Update handles PUT /calculations/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculation.update",
		trace.WithAttributes(attribute.String("calculation.id", id)),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	req, err := DecodeUpdate(r.Body)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "update", err)
		return
	}

	start := time.Now()
	calc, err := h.svc.Update(ctx, auth.UserIDFromContext(ctx), id, req)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "update", err)
		return
	}
	if req.Inputs != nil {
		record(ctx, span, calc.Type, *calc.Result, start)
		logger.Info("calculation updated",
			zap.String("calculation_id", calc.ID),
			zap.Stringer("result", calc.Result),
		)
	}

	handlers.WriteJSON(w, http.StatusOK, calc)
}

// Delete handles DELETE /calculations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, span := tracer.Start(r.Context(), "calculation.delete",
		trace.WithAttributes(attribute.String("calculation.id", id)),
	)
	defer span.End()

	if err := h.svc.Delete(ctx, auth.UserIDFromContext(ctx), id); err != nil {
		h.fail(w, r.WithContext(ctx), span, "delete", err)
		return
	}

	observability.LoggerWithTrace(ctx).Info("calculation deleted", zap.String("calculation_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Types handles GET /calculations/types
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	kinds := operations.Kinds()
	infos := make([]TypeInfo, 0, len(kinds))
	for _, k := range kinds {
		infos = append(infos, TypeInfo{
			Type:  k,
			Label: k.Label(),
			Arity: k.Arity().String(),
		})
	}
	handlers.WriteJSON(w, http.StatusOK, infos)
}

// Evaluate handles POST /calculations/evaluate. Nothing is stored.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculation.evaluate")
	defer span.End()

	req, err := DecodeCreate(r.Body)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "evaluate", err)
		return
	}

	start := time.Now()
	result, err := h.svc.Evaluate(req)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, "evaluate", err)
		return
	}
	kind := operations.Kind(req.Type)
	record(ctx, span, kind, result, start)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Type:   kind,
		Inputs: req.Inputs,
		Result: result,
	})
}

// record updates the evaluation metrics and annotates span with the result.
func record(ctx context.Context, span trace.Span, kind operations.Kind, result operations.Number, start time.Time) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	attrs := metric.WithAttributes(attribute.String("operation", string(kind)))
	if opsCounter != nil {
		opsCounter.Add(ctx, 1, attrs)
		evalDuration.Record(ctx, elapsed, attrs)
		resultGauge.Record(ctx, result.Float64(), attrs)
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", result.String()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculation.type", string(kind)))
	span.SetStatus(codes.Ok, "")
}

// fail maps err onto an HTTP status and reports it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, op string, err error) {
	rep := observability.ErrorReport{Op: op, Message: err.Error(), Err: err, Status: StatusFor(err)}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		rep.Message = "Validation failed"
		rep.Details = verrs
	case errors.Is(err, ErrNotFound):
		rep.Message = "Calculation not found"
	case rep.Status == http.StatusInternalServerError:
		rep.Message = "internal server error"
	default:
		var opErr *operations.Error
		if errors.As(err, &opErr) {
			rep.Message = opErr.Msg
		}
	}

	observability.RecordError(r.Context(), span, observability.LoggerWithTrace(r.Context()), errorCounter, rep, w)
}

// StatusFor returns the HTTP status for an error returned by the
// calculation package.
func StatusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, operations.ErrUnsupportedOperation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, operations.ErrInvalidInputShape),
		errors.Is(err, operations.ErrArityViolation),
		errors.Is(err, operations.ErrDomainViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
