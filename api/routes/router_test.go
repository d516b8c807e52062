package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/tomasvidal/fieldforge-backend/pkg/auth"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "fieldforge-test",
			ExpirationMinutes: 5,
		},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(testRouterConfig(), logger.New(logger.Options{ServiceName: "test"}), stubPinger{}, stubPinger{}, nil, nil, nil, nil)
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, w.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics returned %d", w.Code)
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter()
	productID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID+"/field-definitions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestRouterAcceptsMintedToken(t *testing.T) {
	t.Parallel()

	cfg := testRouterConfig()
	router := NewRouter(cfg, logger.New(logger.Options{ServiceName: "test"}), stubPinger{}, stubPinger{}, nil, nil, nil, nil)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString()+"/field-definitions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// the token passes the gate; the nil service answers with an internal error
	if w.Code == http.StatusUnauthorized {
		t.Fatal("valid token should pass authentication")
	}
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected nil service to answer 500, got %d", w.Code)
	}
}

func TestRouterRoleGateOnDefinitionWrites(t *testing.T) {
	t.Parallel()

	cfg := testRouterConfig()
	router := NewRouter(cfg, logger.New(logger.Options{ServiceName: "test"}), stubPinger{}, stubPinger{}, nil, nil, nil, nil)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+uuid.NewString()+"/field-definitions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("customers must not write definitions, got %d", w.Code)
	}
}
