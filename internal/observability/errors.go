package observability

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorReport describes a failed request for RecordError.
type ErrorReport struct {
	Op      string
	Message string
	Err     error
	Status  int
	// Details is written to the response body under "details" when set.
	Details any
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error HTTP response. Client errors are logged at warn level.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, rep ErrorReport, w http.ResponseWriter) {
	span.RecordError(rep.Err)
	span.SetStatus(codes.Error, rep.Message)
	span.SetAttributes(attribute.Int("http.response.status_code", rep.Status))

	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", rep.Op),
			attribute.Int("status", rep.Status),
		))
	}

	fields := []zap.Field{
		zap.String("operation", rep.Op),
		zap.Int("status", rep.Status),
		zap.Error(rep.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if rep.Status >= http.StatusInternalServerError {
		logger.Error(rep.Message, fields...)
	} else {
		logger.Warn(rep.Message, fields...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.Status)
	json.NewEncoder(w).Encode(errorBody{Error: rep.Message, Details: rep.Details})
}
