package repos

import (
	"owlbid/internal/domain"

	"github.com/jmoiron/sqlx"
)

type WatchlistRepo struct{ db *sqlx.DB }

func NewWatchlistRepo(db *sqlx.DB) *WatchlistRepo { return &WatchlistRepo{db: db} }

// Add is idempotent: a second add for the same (user, listing) pair
// leaves the single existing row in place.
func (r *WatchlistRepo) Add(userID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO watchlist_items(user_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID)
	return err
}

// Remove is a no-op when the entry does not exist.
func (r *WatchlistRepo) Remove(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM watchlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

func (r *WatchlistRepo) IsWatched(userID, listingID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM watchlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return n > 0, err
}

func (r *WatchlistRepo) List(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  JOIN watchlist_items wi ON wi.listing_id = l.id
	  WHERE wi.user_id = ?
	  ORDER BY wi.created_at DESC
	`, userID)
	return out, err
}
