package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "salon-test", Environment: "test"},
		Database: config.DatabaseConfig{Store: config.StoreMemory},
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "salon-test", TTL: time.Hour},
		Schedule: config.ScheduleConfig{WorkStart: "08:00", WorkEnd: "18:00", StepMinutes: 30},
		RateLimit: config.RateLimitConfig{
			Enabled: true, RequestsPerMinute: 600, Burst: 3, TTL: time.Minute,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := func() time.Time { return time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC) }
	repo := repository.NewAppointmentMemoryRepository(now)
	repo.Seed()

	r := gin.New()
	err := RegisterRoutes(r, Deps{
		Config:  cfg,
		Log:     zap.NewNop(),
		Metrics: metrics.NewCollector("test"),
		Repo:    repo,
		Now:     now,
	})
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r
}

func get(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMemoryModeRoutes(t *testing.T) {
	r := newRouter(t, testConfig())

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/appointments/available-slots?date=2024-12-15&service_id=1", http.StatusOK},
		{"/api/v2/appointments/available-slots?date=2024-12-15&service_id=1", http.StatusOK},
		{"/api/appointments", http.StatusOK},
		{"/api/clients", http.StatusNotFound},
		{"/api/dashboard/stats", http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := get(r, tt.path, nil); w.Code != tt.want {
			t.Errorf("GET %s: expected %d, got %d", tt.path, tt.want, w.Code)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newRouter(t, testConfig())

	w := get(r, "/health", http.Header{middleware.RequestIDHeader: {"req-123"}})
	if got := w.Header().Get(middleware.RequestIDHeader); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
}

func TestRequiredAuth(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Required = true
	r := newRouter(t, cfg)

	path := "/api/appointments/available-slots?date=2024-12-15&service_id=1"
	if w := get(r, path, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := middleware.IssueToken(cfg.JWT, 1, "admin", time.Now())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	w := get(r, path, http.Header{"Authorization": {"Bearer " + token}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRateLimitApplied(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerMinute = 1
	cfg.RateLimit.Burst = 2
	r := newRouter(t, cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, get(r, "/api/appointments", nil).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	if w := get(r, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", w.Code)
	}
}

func TestRedisLimiterKeyPrefix(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	l, ok := newLimiter(Deps{Config: testConfig(), Redis: rdb}).(*middleware.RedisLimiter)
	if !ok {
		t.Fatal("expected the Redis limiter when a client is configured")
	}
	if got := l.Key("1.2.3.4"); got != "salon-test:ratelimit:1.2.3.4" {
		t.Fatalf("unexpected key %q", got)
	}
}
