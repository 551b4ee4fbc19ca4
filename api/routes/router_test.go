package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/chat"
	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/fusionwear/storefront/pkg/metrics"
	"github.com/fusionwear/storefront/pkg/redis"
)

type stubChat struct{}

func (stubChat) Reply(ctx context.Context, req chat.Request) (*chat.Reply, error) {
	return &chat.Reply{Message: "echo: " + req.Message, Model: "stub"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "dev"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		Metrics:   config.MetricsConfig{Enabled: true},
		RateLimit: config.RateLimitConfig{ChatWindow: time.Minute, ChatIPLimit: 2},
	}
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	cat, _ := catalog.New([]catalog.Product{
		{ID: "p1", Name: "Cotton Tee", Price: "₹799", ImageURL: "https://img.test/400x500/p1.jpg", Collection: "Basics"},
	})
	reg := prometheus.NewRegistry()
	return Deps{
		Catalog:  cat,
		Chat:     stubChat{},
		Metrics:  metrics.NewHTTPMetrics(reg),
		Gatherer: reg,
	}
}

func TestRouterServesPublicEndpoints(t *testing.T) {
	router := NewRouter(testConfig(), logger.Nop(), testDeps(t))

	cases := []struct {
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK, `"live"`},
		{http.MethodGet, "/health/ready", "", http.StatusOK, `"ready"`},
		{http.MethodGet, "/api/health", "", http.StatusOK, `"status":"ok"`},
		{http.MethodPost, "/api/chat", `{"message":"hi"}`, http.StatusOK, `"echo: hi"`},
		{http.MethodGet, "/api/catalog/collections", "", http.StatusOK, `"Basics"`},
		{http.MethodGet, "/api/catalog/products?collection=Basics", "", http.StatusOK, `"p1"`},
		{http.MethodGet, "/api/catalog/products/p1", "", http.StatusOK, `800x1000`},
		{http.MethodGet, "/api/catalog/products/zz", "", http.StatusNotFound, `NOT_FOUND`},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))

		if rec.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.status, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s %s: expected body to contain %s, got %s", tc.method, tc.path, tc.want, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s %s: missing request id header", tc.method, tc.path)
		}
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	router := NewRouter(testConfig(), logger.Nop(), testDeps(t))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestRouterRateLimitsChatWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	deps := testDeps(t)
	deps.Redis = client
	router := NewRouter(testConfig(), logger.Nop(), deps)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	ttl := mr.TTL("sf:rate_limit:ip:chat:198.51.100.7")
	assert.Equal(t, time.Minute, ttl)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestRouterReadinessIgnoresStateBackend(t *testing.T) {
	cfg := testConfig()
	cfg.State.Backend = config.StateBackendSQL

	router := NewRouter(cfg, logger.Nop(), testDeps(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"db"`)
}
