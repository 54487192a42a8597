package handler_test

// Shared fixtures for handler tests.  The full route table is registered
// against an in-memory SQLite database, so requests exercise the same
// binding, middleware and repository code paths as production, minus the
// external Redis and RabbitMQ collaborators (both degrade to no-ops).

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/config"
	"github.com/iliyamo/blog-api/internal/handler"
	"github.com/iliyamo/blog-api/internal/middleware"
	"github.com/iliyamo/blog-api/internal/repository"
	"github.com/iliyamo/blog-api/internal/router"
	"github.com/iliyamo/blog-api/internal/testutil"
)

type testServer struct {
	e        *echo.Echo
	cfg      config.Config
	users    *repository.UserRepo
	articles *repository.ArticleRepo
}

func newTestServer(t *testing.T, name string) *testServer {
	t.Helper()
	db := testutil.OpenTestDB(t, name)
	cfg := testutil.TestConfig()
	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)

	// Disabled cache/limiter configs produce pass-through middleware, the
	// same shape the server runs with when Redis is unreachable.
	cache := middleware.NewRedisCache(config.CacheConfig{}, nil)
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)

	e := echo.New()
	router.RegisterRoutes(e, t.TempDir())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limiter)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users, articles, nil))
	router.RegisterArticles(e, handler.NewArticleHandler(users, articles), cfg.JWTSecret, cache)

	return &testServer{e: e, cfg: cfg, users: users, articles: articles}
}

// doJSON performs a request with a JSON body (or none) and returns the
// recorder.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = strings.NewReader(string(bs))
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

// doForm performs a form-encoded POST, the classic password-flow shape of
// the token endpoint.
func (ts *testServer) doForm(t *testing.T, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
