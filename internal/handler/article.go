package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/model"
	"github.com/iliyamo/blog-api/internal/queue"
	"github.com/iliyamo/blog-api/internal/repository"
	queue_publisher "github.com/iliyamo/blog-api/internal/service"
)

// ArticleHandler bundles dependencies for article endpoints.  The user
// repository is needed to resolve the owner embedded in the display form.
type ArticleHandler struct {
	Users    *repository.UserRepo
	Articles *repository.ArticleRepo
}

func NewArticleHandler(u *repository.UserRepo, a *repository.ArticleRepo) *ArticleHandler {
	return &ArticleHandler{Users: u, Articles: a}
}

// ----- DTOs -----

type articleReq struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	CreatorID uint64 `json:"creator_id"`
}

type creatorPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type articleDisplay struct {
	ID        uint64      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Published bool        `json:"published"`
	User      creatorPart `json:"user"`
}

// Create handles POST /article.  The creator must exist before insert so
// the display projection always resolves; an unknown creator_id answers
// 404.  A domain event is published asynchronously after the insert and
// never fails the request.
func (h *ArticleHandler) Create(c echo.Context) error {
	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.CreatorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "creator_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	creator, err := h.Users.GetByID(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "creator not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	article := &model.Article{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Published: req.Published,
		CreatorID: creator.ID,
	}
	if err := h.Articles.Create(ctx, article); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create article failed"})
	}

	ev := queue.ArticleCreatedEvent{
		ArticleID:       article.ID,
		Title:           article.Title,
		Published:       article.Published,
		CreatorID:       creator.ID,
		CreatorUsername: creator.Username,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue_publisher.PublishArticleCreated(context.Background(), ev) }()

	return c.JSON(http.StatusOK, articleDisplay{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Published: article.Published,
		User:      creatorPart{ID: creator.ID, Username: creator.Username},
	})
}

// Get handles GET /article/:id.  The route sits behind the bearer token
// gate; by the time this runs the token has already been verified.
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	article, creator, err := h.Articles.GetWithCreator(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, articleDisplay{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Published: article.Published,
		User:      creatorPart{ID: creator.ID, Username: creator.Username},
	})
}
