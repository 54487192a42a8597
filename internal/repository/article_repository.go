package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/blog-api/internal/model"
)

// ArticleRepo manages persistence for articles.  The contract only exposes
// create and read; update and delete are intentionally absent.
type ArticleRepo struct{ DB *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{DB: db} }

// Create inserts a new article and assigns the generated id back to the
// struct.  Referential integrity of CreatorID is checked by the caller
// before insert so the display projection is guaranteed to resolve.
func (r *ArticleRepo) Create(ctx context.Context, a *model.Article) error {
	const q = `INSERT INTO articles (title, content, published, creator_id) VALUES (?,?,?,?)`
	res, err := r.DB.ExecContext(ctx, q, a.Title, a.Content, a.Published, a.CreatorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an article by id, returning ErrArticleNotFound when no
// row matches.
func (r *ArticleRepo) GetByID(ctx context.Context, id uint64) (*model.Article, error) {
	const q = `SELECT id, title, content, published, creator_id FROM articles WHERE id=? LIMIT 1`
	var a model.Article
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Title, &a.Content, &a.Published, &a.CreatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetWithCreator retrieves an article together with its owning user in one
// join.  The returned user carries no password hash.
func (r *ArticleRepo) GetWithCreator(ctx context.Context, id uint64) (*model.Article, *model.User, error) {
	const q = `SELECT a.id, a.title, a.content, a.published, a.creator_id, u.id, u.username, u.email
	           FROM articles a JOIN users u ON u.id = a.creator_id
	           WHERE a.id=? LIMIT 1`
	var (
		a model.Article
		u model.User
	)
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Title, &a.Content, &a.Published, &a.CreatorID,
		&u.ID, &u.Username, &u.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &a, &u, nil
}

// ListByCreator returns all articles owned by the given user in id order.
// Used to embed a user's articles in the user display projection.
func (r *ArticleRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]model.Article, error) {
	const q = `SELECT id, title, content, published, creator_id FROM articles WHERE creator_id=? ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Published, &a.CreatorID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
