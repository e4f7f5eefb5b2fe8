package repos

import (
	"database/sql"

	"owlbid/internal/domain"

	"github.com/jmoiron/sqlx"
)

type BidRepo struct{ db *sqlx.DB }

func NewBidRepo(db *sqlx.DB) *BidRepo { return &BidRepo{db: db} }

// Highest returns the max-amount bid, or nil if the listing has none.
// Amounts strictly increase, so this is also the most recent bid;
// created_at breaks ties for rows inserted outside PlaceBid.
func (r *BidRepo) Highest(listingID string) (*domain.Bid, error) {
	var b domain.Bid
	err := r.db.Get(&b, `
	  SELECT b.id, b.listing_id, b.bidder_id, u.username AS bidder_name, b.amount, b.created_at
	  FROM bids b
	  JOIN users u ON u.id = b.bidder_id
	  WHERE b.listing_id = ?
	  ORDER BY b.amount DESC, b.created_at DESC
	  LIMIT 1
	`, listingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BidRepo) Count(listingID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM bids WHERE listing_id = ?`, listingID)
	return n, err
}

func (r *BidRepo) ListByListing(listingID string) ([]domain.Bid, error) {
	var out []domain.Bid
	err := r.db.Select(&out, `
	  SELECT b.id, b.listing_id, b.bidder_id, u.username AS bidder_name, b.amount, b.created_at
	  FROM bids b
	  JOIN users u ON u.id = b.bidder_id
	  WHERE b.listing_id = ?
	  ORDER BY b.amount DESC, b.created_at DESC
	`, listingID)
	return out, err
}
