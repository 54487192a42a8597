package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-api/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1 << 20}
}

// newCachedEcho wires an article-shaped route through the cache and counts
// how often the inner handler actually runs.
func newCachedEcho(t *testing.T, cfg config.CacheConfig) (*echo.Echo, *redis.Client, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	e := echo.New()
	e.GET("/article/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, NewRedisCache(cfg, rdb))
	return e, rdb, &calls
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Each article id must cache under its own key: the entry stored for one
// id may never be served for another.
func TestRedisCache_KeyedByConcreteID(t *testing.T) {
	e, _, calls := newCachedEcho(t, cacheTestConfig())

	rec := get(e, "/article/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"1"`)

	rec = get(e, "/article/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2"`)
	assert.NotContains(t, rec.Body.String(), `"1"`)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	// The repeat read is a hit and does not reach the handler again.
	rec = get(e, "/article/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"1"`)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestRedisCache_SkipsOversizedBody(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.MaxBodyBytes = 4
	e, _, calls := newCachedEcho(t, cfg)

	get(e, "/article/1")
	rec := get(e, "/article/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, *calls, "oversized responses must not be cached")
}

func TestRedisCache_PassThroughWhenDisabled(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{}, nil)

	e := echo.New()
	calls := 0
	e.GET("/article/:id", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "body")
	}, mw)

	get(e, "/article/1")
	get(e, "/article/1")
	assert.Equal(t, 2, calls)
}

func TestCacheInvalidator_DropArticles(t *testing.T) {
	cfg := cacheTestConfig()
	e, rdb, calls := newCachedEcho(t, cfg)
	inv := NewCacheInvalidator(cfg, rdb)
	require.NotNil(t, inv)

	get(e, "/article/7")
	require.Equal(t, 1, *calls)

	inv.DropArticles(t.Context(), []uint64{7})

	rec := get(e, "/article/7")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

// A nil invalidator (caching disabled) must be safe to call.
func TestCacheInvalidator_NilIsNoOp(t *testing.T) {
	inv := NewCacheInvalidator(config.CacheConfig{}, nil)
	require.Nil(t, inv)
	inv.DropArticles(t.Context(), []uint64{1, 2})
}

func TestRedisCache_IgnoresNonGet(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	calls := 0
	e.POST("/article", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "created")
	}, NewRedisCache(cacheTestConfig(), rdb))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/article", strings.NewReader("{}"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}
