package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/user"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/idempotency"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/pkg/jwt"
)

const (
	companyA = "0193a6b2-0000-7000-8000-00000000000a"
	companyB = "0193a6b2-0000-7000-8000-00000000000b"
)

func newJWT(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-test-secret", "1h")
	require.NoError(t, err)
	return svc
}

func tokenFor(t *testing.T, svc jwt.Service, role user.Role, companyID *string) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(user.User{ID: "u-1", Email: "u@acme.sn", Role: role, CompanyID: companyID})
	require.NoError(t, err)
	return token
}

// tenantRouter mounts the same chain the API uses for tenant routes.
func tenantRouter(svc jwt.Service, permission user.Permission) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(svc.JWTAuth()))
		r.Use(AuthRequired)
		r.Route("/company/{companyId}", func(r chi.Router) {
			r.Use(CompanyScope)
			r.With(RequirePermission(permission)).Get("/resource", func(w http.ResponseWriter, r *http.Request) {
				actor, _ := ActorFromContext(r.Context())
				_, _ = io.WriteString(w, string(actor.Role))
			})
		})
	})
	return r
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTenantChain(t *testing.T) {
	svc := newJWT(t)
	a := companyA

	tests := []struct {
		name       string
		token      string
		path       string
		permission user.Permission
		wantStatus int
	}{
		{"no token", "", "/company/" + companyA + "/resource", user.PermissionEmployeeView, http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", "/company/" + companyA + "/resource", user.PermissionEmployeeView, http.StatusUnauthorized},
		{"admin own company", tokenFor(t, svc, user.RoleAdmin, &a), "/company/" + companyA + "/resource", user.PermissionEmployeeView, http.StatusOK},
		{"admin other company", tokenFor(t, svc, user.RoleAdmin, &a), "/company/" + companyB + "/resource", user.PermissionEmployeeView, http.StatusForbidden},
		{"super admin any company", tokenFor(t, svc, user.RoleSuperAdmin, nil), "/company/" + companyB + "/resource", user.PermissionPayRunManage, http.StatusOK},
		{"cashier records payments", tokenFor(t, svc, user.RoleCashier, &a), "/company/" + companyA + "/resource", user.PermissionPaymentRecord, http.StatusOK},
		{"cashier cannot run payroll", tokenFor(t, svc, user.RoleCashier, &a), "/company/" + companyA + "/resource", user.PermissionPayRunManage, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec := serve(tenantRouter(svc, tt.permission), http.MethodGet, tt.path, tt.token)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthRequired_RejectsNonAccessToken(t *testing.T) {
	svc := newJWT(t)
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		jwt.ClaimUserID: "u-1",
		jwt.ClaimRole:   "ADMIN",
		jwt.ClaimType:   "refresh",
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	// Act
	rec := serve(tenantRouter(svc, user.PermissionEmployeeView), http.MethodGet, "/company/"+companyA+"/resource", token)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired_RejectsUnknownRole(t *testing.T) {
	svc := newJWT(t)
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		jwt.ClaimUserID: "u-1",
		jwt.ClaimRole:   "OWNER",
		jwt.ClaimType:   jwt.TokenTypeAccess,
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	// Act
	rec := serve(tenantRouter(svc, user.PermissionEmployeeView), http.MethodGet, "/company/"+companyA+"/resource", token)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func idempotentRouter(store idempotency.Store, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.With(Idempotency(store, time.Hour)).Post("/company/{companyId}/payments", handler)
	return r
}

func postPayment(h http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/company/"+companyA+"/payments", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysFirstSuccess(t *testing.T) {
	var calls atomic.Int32
	h := idempotentRouter(idempotency.NewMemoryStore(), func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"call":`+string(rune('0'+n))+`,"echo":`+string(body)+`}`)
	})

	// Act
	first := postPayment(h, "key-1", `{"amount":"1000"}`)
	second := postPayment(h, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
}

func TestIdempotency_KeyReusedWithDifferentBody(t *testing.T) {
	h := idempotentRouter(idempotency.NewMemoryStore(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	postPayment(h, "key-1", `{"amount":"1000"}`)

	// Act
	rec := postPayment(h, "key-1", `{"amount":"2000"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "IDEMPOTENCY_KEY_REUSED")
}

func TestIdempotency_InFlightDuplicate(t *testing.T) {
	store := idempotency.NewMemoryStore()
	h := idempotentRouter(store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	_, reserved, err := store.Reserve(t.Context(), companyA+":key-1", requestHash(
		httptest.NewRequest(http.MethodPost, "/company/"+companyA+"/payments", nil), []byte(`{"amount":"1000"}`)), time.Hour)
	require.NoError(t, err)
	require.True(t, reserved)

	// Act
	rec := postPayment(h, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_IN_PROGRESS")
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	var calls atomic.Int32
	h := idempotentRouter(idempotency.NewMemoryStore(), func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	// Act
	first := postPayment(h, "key-1", `{"amount":"1000"}`)
	second := postPayment(h, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_WithoutHeader(t *testing.T) {
	var calls atomic.Int32
	h := idempotentRouter(idempotency.NewMemoryStore(), func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})

	// Act
	postPayment(h, "", `{"amount":"1000"}`)
	postPayment(h, "", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.With(Idempotency(idempotency.NewMemoryStore(), time.Hour)).Post("/company/{companyId}/payments", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			panic("payment handler crashed")
		}
		w.WriteHeader(http.StatusCreated)
	})

	// Act
	first := postPayment(r, "key-1", `{"amount":"1000"}`)
	second := postPayment(r, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, int32(2), calls.Load())
}

// ctxStore fails on cancelled contexts like a network-backed store would.
type ctxStore struct {
	*idempotency.MemoryStore
	completeErr error
}

func (s *ctxStore) Complete(ctx context.Context, key string, record idempotency.Record, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.completeErr != nil {
		return s.completeErr
	}
	return s.MemoryStore.Complete(ctx, key, record, ttl)
}

func TestIdempotency_CompletesAfterClientCancels(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := idempotentRouter(&ctxStore{MemoryStore: idempotency.NewMemoryStore()}, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		cancel()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"pay-1"}`)
	})
	req := httptest.NewRequest(http.MethodPost, "/company/"+companyA+"/payments", strings.NewReader(`{"amount":"1000"}`)).WithContext(ctx)
	req.Header.Set(IdempotencyKeyHeader, "key-1")

	// Act
	h.ServeHTTP(httptest.NewRecorder(), req)
	retry := postPayment(h, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, "true", retry.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, `{"id":"pay-1"}`, retry.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_StoreFailureReleasesKey(t *testing.T) {
	var calls atomic.Int32
	store := &ctxStore{MemoryStore: idempotency.NewMemoryStore(), completeErr: errors.New("redis: connection refused")}
	h := idempotentRouter(store, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})
	postPayment(h, "key-1", `{"amount":"1000"}`)

	// Act
	retry := postPayment(h, "key-1", `{"amount":"1000"}`)

	// Assert
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Empty(t, retry.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_RejectsOversizedBody(t *testing.T) {
	var calls atomic.Int32
	h := idempotentRouter(idempotency.NewMemoryStore(), func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})
	body := `{"notes":"` + strings.Repeat("x", maxIdempotentBody) + `"}`

	// Act
	rec := postPayment(h, "key-1", body)

	// Assert
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
	assert.Zero(t, calls.Load())
}
