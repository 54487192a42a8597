package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/blog-api/internal/utils"
)

type articleDisplay struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	User      struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func TestCreateArticle_UnknownCreator(t *testing.T) {
	ts := newTestServer(t, "article_bad_creator")

	rec := ts.doJSON(t, http.MethodPost, "/article",
		map[string]any{"title": "T", "content": "C", "published": true, "creator_id": 42}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestCreateArticle_MissingTitle(t *testing.T) {
	ts := newTestServer(t, "article_no_title")

	rec := ts.doJSON(t, http.MethodPost, "/article",
		map[string]any{"content": "C", "creator_id": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Full scenario: register, login, create an article, then read it back
// through the bearer gate.
func TestArticle_EndToEnd(t *testing.T) {
	ts := newTestServer(t, "article_e2e")

	rec := ts.doJSON(t, http.MethodPost, "/user",
		map[string]string{"username": "alice", "email": "alice@x.com", "password": "pw123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	alice := decode[userDisplay](t, rec)

	rec = ts.doForm(t, "/authentication/token", "username=alice&password=pw123")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[struct {
		AccessToken string `json:"access_token"`
	}](t, rec).AccessToken

	rec = ts.doJSON(t, http.MethodPost, "/article",
		map[string]any{"title": "T", "content": "C", "published": true, "creator_id": alice.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[articleDisplay](t, rec)
	require.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.User.Username)

	path := fmt.Sprintf("/article/%d", created.ID)

	// Without a token the gate rejects the read outright.
	rec = ts.doJSON(t, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	// An expired token is invalid, with no renewal path.
	expired, err := utils.NewAccessToken(ts.cfg.JWTSecret, alice.ID, "alice", -1)
	require.NoError(t, err)
	rec = ts.doJSON(t, http.MethodGet, path, nil, map[string]string{"Authorization": "Bearer " + expired.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	// A forged signature is rejected the same way.
	forged, err := utils.NewAccessToken("other-secret", alice.ID, "alice", 15)
	require.NoError(t, err)
	rec = ts.doJSON(t, http.MethodGet, path, nil, map[string]string{"Authorization": "Bearer " + forged.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The real token reads the article with the owner embedded.
	rec = ts.doJSON(t, http.MethodGet, path, nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[articleDisplay](t, rec)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.True(t, got.Published)
	assert.Equal(t, alice.ID, got.User.ID)
	assert.Equal(t, "alice", got.User.Username)

	// The owner's display form now embeds the article.
	rec = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/user/%d", alice.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decode[userDisplay](t, rec)
	require.Len(t, owner.Items, 1)
	assert.Equal(t, "T", owner.Items[0].Title)
}

func TestGetArticle_NotFound(t *testing.T) {
	ts := newTestServer(t, "article_get_missing")

	tok, err := utils.NewAccessToken(ts.cfg.JWTSecret, 1, "alice", 15)
	require.NoError(t, err)
	rec := ts.doJSON(t, http.MethodGet, "/article/999", nil, map[string]string{"Authorization": "Bearer " + tok.Token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHello(t *testing.T) {
	ts := newTestServer(t, "hello")

	rec := ts.doJSON(t, http.MethodGet, "/hello", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello World!"}`, rec.Body.String())
}
