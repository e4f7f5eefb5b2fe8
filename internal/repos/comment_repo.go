package repos

import (
	"owlbid/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CommentRepo struct{ db *sqlx.DB }

func NewCommentRepo(db *sqlx.DB) *CommentRepo { return &CommentRepo{db: db} }

// Add appends a comment. There is no edit or delete path.
func (r *CommentRepo) Add(listingID, authorID, body string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
	  INSERT INTO comments(id,listing_id,author_id,body) VALUES(?,?,?,?)
	`, id, listingID, authorID, body)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CommentRepo) ListByListing(listingID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := r.db.Select(&out, `
	  SELECT c.id, c.listing_id, c.author_id, u.username AS author_name, c.body, c.created_at
	  FROM comments c
	  JOIN users u ON u.id = c.author_id
	  WHERE c.listing_id = ?
	  ORDER BY c.created_at DESC
	`, listingID)
	return out, err
}
