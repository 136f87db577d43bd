//go:build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/caseflow-backend/internal/app"
	authpkg "github.com/heartmarshall/caseflow-backend/internal/auth"
	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/metrics"
	"github.com/heartmarshall/caseflow-backend/internal/transport/middleware"
	"github.com/heartmarshall/caseflow-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, config.RateLimitConfig{DestructivePerMinute: 1000})
}

func setupTestServerWith(t *testing.T, rl config.RateLimitConfig) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	svcs := app.NewServicesWithPool(pool, config.TrashConfig{
		PurgeRoles:    []string{"super_admin", "manager"},
		RetentionDays: 30,
		ListMaxLimit:  100,
	}, logger, m)

	jwtMgr := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer", 15*time.Minute)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		Trash:     rest.NewTrashHandler(svcs.Trash, logger),
		Summary:   rest.NewSummaryHandler(svcs.Summary, logger),
		Health:    rest.NewHealthHandler("test-version", rest.Probe{Name: "database", Check: pool.Ping}),
		Validator: jwtMgr,
		Metrics:   m,
		Gatherer:  reg,
		Limiter:   limiter,
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit: rl,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// tokenFor returns a valid access token for a fresh user with role.
func (ts *testServer) tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(uuid.New(), role)
	require.NoError(t, err)
	return tok
}

// do sends a request and decodes the JSON body.
func (ts *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, result map[string]any) string {
	t.Helper()
	detail, ok := result["error"].(map[string]any)
	require.True(t, ok, "expected error object in response: %v", result)
	code, ok := detail["code"].(string)
	require.True(t, ok, "expected code string in error")
	return code
}
