package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/handler"
	"github.com/iliyamo/blog-api/internal/middleware"
)

// RegisterRoutes registers the endpoints that carry no authentication and
// no dependencies beyond the filesystem: the hello smoke test, the health
// check and the static files mount.
func RegisterRoutes(e *echo.Echo, filesDir string) {
	e.GET("/hello", handler.Hello)
	e.GET("/healthz", handler.Health)
	e.Static("/files", filesDir)
}

// RegisterAuth registers the token endpoint.  The rate limiter slows down
// credential guessing; it degrades to a pass-through without Redis.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/authentication")
	g.POST("/token", a.Token, limiter)
}

// RegisterUsers registers the user CRUD endpoints.  None of them sit behind
// the token gate: registration must stay open, and the remaining routes
// mirror the observed surface of the contract.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler) {
	g := e.Group("/user")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/update", h.Update)
	g.GET("/delete/:id", h.Delete)
}

// RegisterArticles registers article endpoints.  Reading an article
// requires a bearer token; the response cache runs after the gate and is
// safe because articles are immutable (no update or delete is exposed).
func RegisterArticles(e *echo.Echo, h *handler.ArticleHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/article")
	g.POST("", h.Create)
	g.GET("/:id", h.Get, middleware.JWTAuth(jwtSecret), cache)
}
