package model

// Article represents a row in the `articles` table.  Each article is owned
// by exactly one user through CreatorID; the display projection joins the
// owning user in the repository layer.
type Article struct {
	ID        uint64 // articles.id
	Title     string // articles.title
	Content   string // articles.content
	Published bool   // articles.published
	CreatorID uint64 // articles.creator_id (references users.id)
}
