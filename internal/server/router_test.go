package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/calculation"
	"github.com/techy-Nik/final-term/internal/database"
	"github.com/techy-Nik/final-term/internal/observability"
	"github.com/techy-Nik/final-term/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()
	if err := calculation.InitMetrics(); err != nil {
		t.Fatalf("initializing calculation metrics: %v", err)
	}

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating database: %v", err)
	}

	authSvc := auth.NewService(
		auth.NewUserRepository(db),
		auth.NewPasswordHasher(4),
		auth.NewTokenManager("test-secret", "test", time.Hour),
		auth.NewMemoryBlacklist(),
	)
	calcSvc := calculation.NewService(calculation.NewRepository(db))

	return NewRouter(Options{Auth: authSvc, Calculations: calcSvc})
}

func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "SecurePass123!",
		"confirm_password": "SecurePass123!",
	}, ""), router)
	testutil.CheckResponseCode(t, http.StatusCreated, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": "SecurePass123!",
	}, ""), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var tok auth.TokenResponse
	testutil.DecodeJSONBody(t, rr.Body, &tok)
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", tok)
	}
	return tok.AccessToken
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/health", nil, ""), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, rr.Body, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %#v", body)
	}

	requestID := rr.Result().Header.Get(observability.RequestIDHeader)
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}
}

func TestCalculationsRequireAuthentication(t *testing.T) {
	router := newTestRouter(t)

	for _, token := range []string{"", "not-a-jwt"} {
		rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations", nil, token), router)
		testutil.CheckResponseCode(t, http.StatusUnauthorized, rr.Code)
	}
}

func TestCalculationLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/calculations",
		`{"type":"addition","inputs":[10.5,3,2]}`, token), router)
	testutil.CheckResponseCode(t, http.StatusCreated, rr.Code)

	var created map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &created)
	if created["result"] != 15.5 || created["type"] != "addition" {
		t.Fatalf("unexpected created calculation: %#v", created)
	}
	id, _ := created["id"].(string)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations", nil, token), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var list []map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &list)
	if len(list) != 1 || list[0]["id"] != id {
		t.Fatalf("expected one calculation %s, got %#v", id, list)
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPut, "/calculations/"+id,
		`{"inputs":[42,7]}`, token), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var updated map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &updated)
	if updated["result"] != float64(49) {
		t.Fatalf("expected updated result 49, got %#v", updated["result"])
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations/"+id, nil, token), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var fetched map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &fetched)
	if fetched["result"] != float64(49) {
		t.Fatalf("expected stored result 49, got %#v", fetched["result"])
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodDelete, "/calculations/"+id, nil, token), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations/"+id, nil, token), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)
}

func TestCreateCalculationRejectsInvalidPayloads(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "bob")

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"divide by zero", `{"type":"division","inputs":[100,0]}`, "inputs", "Cannot divide by zero!"},
		{"unsupported type", `{"type":"power","inputs":[2,3]}`, "type", "Unsupported calculation type: power. Must be one of addition, subtraction, multiplication, division, exponentiation, modulus, square_root, logarithm"},
		{"too few inputs", `{"type":"addition","inputs":[1]}`, "inputs", "Addition requires at least two numeric inputs"},
		{"inputs not a list", `{"type":"addition","inputs":"1,2"}`, "inputs", "Input should be a valid list"},
		{"missing type", `{"inputs":[1,2]}`, "type", "Field required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/calculations", tc.body, token), router)
			testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, rr.Code)

			var body struct {
				Error   string `json:"error"`
				Details []struct {
					Field   string `json:"field"`
					Message string `json:"message"`
				} `json:"details"`
			}
			testutil.DecodeJSONBody(t, rr.Body, &body)
			if len(body.Details) == 0 {
				t.Fatalf("expected details, got %+v", body)
			}
			if body.Details[0].Field != tc.field || body.Details[0].Message != tc.message {
				t.Fatalf("expected %s: %q, got %+v", tc.field, tc.message, body.Details[0])
			}
		})
	}

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations", nil, token), router)
	var list []map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &list)
	if len(list) != 0 {
		t.Fatalf("expected no stored calculations, got %d", len(list))
	}
}

func TestCalculationsAreScopedToOwner(t *testing.T) {
	router := newTestRouter(t)
	alice := registerAndLogin(t, router, "alice")
	mallory := registerAndLogin(t, router, "mallory")

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/calculations",
		`{"type":"multiplication","inputs":[2,3,4]}`, alice), router)
	testutil.CheckResponseCode(t, http.StatusCreated, rr.Code)
	var created map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &created)
	id := created["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rr = testutil.ExecuteRequest(testutil.JSONRequest(t, method, "/calculations/"+id, nil, mallory), router)
		testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPut, "/calculations/"+id, `{"inputs":[1,1]}`, mallory), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations/"+id, nil, alice), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
}

func TestEvaluateAndTypes(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "carol")

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/calculations/evaluate",
		`{"type":"exponentiation","inputs":[2,3,2]}`, token), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var eval map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &eval)
	if eval["result"] != float64(64) {
		t.Fatalf("expected 64, got %#v", eval["result"])
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations", nil, token), router)
	var list []map[string]any
	testutil.DecodeJSONBody(t, rr.Body, &list)
	if len(list) != 0 {
		t.Fatalf("evaluate must not persist, got %d calculations", len(list))
	}

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations/types", nil, token), router)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)
	var types []calculation.TypeInfo
	testutil.DecodeJSONBody(t, rr.Body, &types)
	if len(types) != 8 {
		t.Fatalf("expected 8 calculation types, got %d", len(types))
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "dave")

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/logout", nil, token), router)
	testutil.CheckResponseCode(t, http.StatusNoContent, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodGet, "/calculations", nil, token), router)
	testutil.CheckResponseCode(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterRejectsDuplicateAndInvalidUsers(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "erin")

	rr := testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":         "erin",
		"email":            "other@example.com",
		"password":         "SecurePass123!",
		"confirm_password": "SecurePass123!",
	}, ""), router)
	testutil.CheckResponseCode(t, http.StatusConflict, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":         "frank",
		"email":            "not-an-email",
		"password":         "SecurePass123!",
		"confirm_password": "Different123!",
	}, ""), router)
	testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, rr.Code)

	rr = testutil.ExecuteRequest(testutil.JSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"username": "erin",
		"password": "wrong-password",
	}, ""), router)
	testutil.CheckResponseCode(t, http.StatusUnauthorized, rr.Code)
}
