package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/config"
	"github.com/iliyamo/blog-api/internal/middleware"
	"github.com/iliyamo/blog-api/internal/model"
	"github.com/iliyamo/blog-api/internal/repository"
)

// UserHandler bundles dependencies for user CRUD endpoints.  The article
// repository is needed because the user display projection embeds the
// user's articles.  Cached article responses embed the owner's username
// and die with the owner, so update and delete push invalidations through
// the (possibly nil) CacheInvalidator.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Articles *repository.ArticleRepo
	Cache    *middleware.CacheInvalidator
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, a *repository.ArticleRepo, inv *middleware.CacheInvalidator) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Articles: a, Cache: inv}
}

// ----- DTOs -----

type userReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type articlePart struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// userDisplay is the outward projection of a user.  It never carries the
// password hash.
type userDisplay struct {
	ID       uint64        `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Items    []articlePart `json:"items"`
}

func articleIDs(articles []model.Article) []uint64 {
	ids := make([]uint64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func toArticleParts(articles []model.Article) []articlePart {
	items := make([]articlePart, 0, len(articles))
	for _, a := range articles {
		items = append(items, articlePart{ID: a.ID, Title: a.Title, Content: a.Content, Published: a.Published})
	}
	return items
}

func (h *UserHandler) display(ctx context.Context, u *model.User) (userDisplay, error) {
	articles, err := h.Articles.ListByCreator(ctx, u.ID)
	if err != nil {
		return userDisplay{}, err
	}
	return userDisplay{ID: u.ID, Username: u.Username, Email: u.Email, Items: toArticleParts(articles)}, nil
}

// parseID converts the :id path parameter to a uint64.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Create handles POST /user.  The password is hashed inside the repository;
// the response is the stored record without the hash.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusOK, userDisplay{ID: u.ID, Username: u.Username, Email: u.Email, Items: []articlePart{}})
}

// List handles GET /user and returns all users in display form.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userDisplay, 0, len(users))
	for i := range users {
		d, err := h.display(ctx, &users[i])
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		out = append(out, d)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /user/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	d, err := h.display(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles POST /user/:id/update.  All three fields are overwritten
// and the password is re-hashed; a missing id answers 404.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, id, req.Username, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
		}
	}

	// Cached article displays embed the owner's username; drop them so a
	// rename is visible immediately.
	if articles, err := h.Articles.ListByCreator(ctx, id); err == nil {
		h.Cache.DropArticles(ctx, articleIDs(articles))
	}
	return c.JSON(http.StatusOK, "ok")
}

// Delete handles GET /user/delete/:id.  A missing id answers 404 rather
// than a silent success.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Collect the owned article ids before the delete: the FK cascade
	// removes the rows, and their cached displays must go with them.
	var owned []uint64
	if articles, err := h.Articles.ListByCreator(ctx, id); err == nil {
		owned = articleIDs(articles)
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	h.Cache.DropArticles(ctx, owned)
	return c.JSON(http.StatusOK, "ok")
}
