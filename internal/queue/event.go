// Package queue defines message payloads exchanged over the message broker.
package queue

// ArticleCreatedEvent is published after an article is stored.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type ArticleCreatedEvent struct {
	ArticleID       uint64 `json:"article_id"`
	Title           string `json:"title"`
	Published       bool   `json:"published"`
	CreatorID       uint64 `json:"creator_id"`
	CreatorUsername string `json:"creator_username"`
	CreatedAt       string `json:"created_at"`
}
