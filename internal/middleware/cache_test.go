package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

func newCacheEnv(t *testing.T) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "cache:test",
		MaxBodyBytes: 1 << 20,
	}

	e := echo.New()
	e.GET("/listings/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "listing:"+c.Param("id"))
	}, NewRedisCache(cfg, rdb))
	return e
}

func getPath(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Two ids on the same parameterized route must cache under distinct keys; a
// cached response for one listing must never be served for another.
func TestCacheKeysPerRequestPath(t *testing.T) {
	e := newCacheEnv(t)

	rec := getPath(e, "/listings/aaa")
	if rec.Body.String() != "listing:aaa" {
		t.Fatalf("first response = %q, want listing:aaa", rec.Body.String())
	}
	rec = getPath(e, "/listings/bbb")
	if rec.Body.String() != "listing:bbb" {
		t.Fatalf("second id got another listing's body: %q, want listing:bbb", rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("distinct id must be a cache miss, got %q", rec.Header().Get("X-Cache"))
	}
}

func TestCacheHitOnRepeat(t *testing.T) {
	e := newCacheEnv(t)

	first := getPath(e, "/listings/aaa")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first request: X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}
	second := getPath(e, "/listings/aaa")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("repeat request: X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("cached body %q differs from original %q", second.Body.String(), first.Body.String())
	}
	if second.Code != http.StatusOK {
		t.Fatalf("cached status = %d, want 200", second.Code)
	}
}

func TestCacheDistinguishesQueryStrings(t *testing.T) {
	e := newCacheEnv(t)

	getPath(e, "/listings/aaa?page=1")
	rec := getPath(e, "/listings/aaa?page=2")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("different query must miss, got %q", rec.Header().Get("X-Cache"))
	}
}
