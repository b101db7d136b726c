package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-manager/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestMemoryLimiter_RefillsWithClock(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(60, 2, time.Minute, clock.now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d within burst should pass", i)
		}
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("third request should be limited")
	}
	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatal("other keys have their own bucket")
	}

	clock.t = clock.t.Add(time.Second)
	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("one token should refill after a second")
	}
}

func TestMemoryLimiter_EvictsIdleKeys(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(60, 5, time.Minute, clock.now)

	_, _ = l.Allow(context.Background(), "a")
	_, _ = l.Allow(context.Background(), "b")
	if l.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", l.Len())
	}

	clock.t = clock.t.Add(2 * time.Minute)
	l.Sweep()
	if l.Len() != 0 {
		t.Fatalf("expected idle keys evicted, got %d", l.Len())
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	l := NewMemoryLimiter(1, 1, time.Minute, nil)
	limited := 0

	r := gin.New()
	r.Use(RateLimit(l, zap.NewNop(), func() { limited++ }))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
	if limited != 1 {
		t.Fatalf("expected onLimited once, got %d", limited)
	}
}

func TestAuth(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "salon-manager"}

	r := gin.New()
	r.GET("/required", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": *ActorID(c)})
	})
	r.GET("/optional", OptionalAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": ActorID(c) == nil})
	})

	token, err := IssueToken(cfg, 7, "admin", time.Now())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	expired, err := IssueToken(cfg, 7, "admin", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	cases := []struct {
		path   string
		header string
		want   int
	}{
		{"/required", "", http.StatusUnauthorized},
		{"/required", "Bearer " + token, http.StatusOK},
		{"/required", "Bearer " + expired, http.StatusUnauthorized},
		{"/required", "Token " + token, http.StatusUnauthorized},
		{"/optional", "", http.StatusOK},
		{"/optional", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s %q: expected %d, got %d", tc.path, tc.header, tc.want, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Fatalf("expected generated id echoed, got header %q body %q", generated, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected incoming id kept, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatal("allowed origin not echoed")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}
}

func TestRedisLimiter_Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"salon:ratelimit", "salon:ratelimit:1.2.3.4"},
		{"salon:ratelimit:", "salon:ratelimit:1.2.3.4"},
		{"", "rl:1.2.3.4"},
	}
	for _, tt := range tests {
		l := NewRedisLimiter(nil, 10, time.Minute, tt.prefix)
		if got := l.Key("1.2.3.4"); got != tt.want {
			t.Errorf("prefix %q: expected %q, got %q", tt.prefix, tt.want, got)
		}
	}
}
