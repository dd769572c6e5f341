package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/handlers"
	"github.com/techy-Nik/final-term/internal/observability"
	"github.com/techy-Nik/final-term/internal/validation"
)

var tracer = otel.Tracer("auth")

// Handler serves the /auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.register")
	defer span.End()
	r = r.WithContext(ctx)

	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.fail(w, r, span, "register", err)
		return
	}

	user, err := h.svc.Register(ctx, req)
	if err != nil {
		h.fail(w, r, span, "register", err)
		return
	}

	observability.LoggerWithTrace(ctx).Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	handlers.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.login")
	defer span.End()
	r = r.WithContext(ctx)

	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.fail(w, r, span, "login", err)
		return
	}

	tok, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.fail(w, r, span, "login", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, tok)
}

// Logout handles POST /auth/logout. It must run behind Middleware.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.logout")
	defer span.End()
	r = r.WithContext(ctx)

	claims := ClaimsFromContext(ctx)
	if claims == nil {
		h.fail(w, r, span, "logout", ErrInvalidToken)
		return
	}

	if err := h.svc.Logout(ctx, claims); err != nil {
		h.fail(w, r, span, "logout", err)
		return
	}

	observability.LoggerWithTrace(ctx).Info("user logged out", zap.String("user_id", claims.UserID))
	w.WriteHeader(http.StatusNoContent)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.Errors{{Field: "body", Message: "Invalid JSON body", Err: err}}
	}
	return validation.Struct(dst)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, op string, err error) {
	rep := observability.ErrorReport{Op: op, Err: err}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		rep.Status = http.StatusUnprocessableEntity
		rep.Message = "Validation failed"
		rep.Details = verrs
	case errors.Is(err, ErrUserExists):
		rep.Status = http.StatusConflict
		rep.Message = "Username or email already exists"
	case errors.Is(err, ErrInvalidCredentials):
		rep.Status = http.StatusUnauthorized
		rep.Message = "Invalid username or password"
	case isTokenError(err):
		rep.Status = http.StatusUnauthorized
		rep.Message = "Could not validate credentials"
	default:
		rep.Status = http.StatusInternalServerError
		rep.Message = "internal server error"
	}

	observability.RecordError(r.Context(), span, observability.LoggerWithTrace(r.Context()), nil, rep, w)
}
