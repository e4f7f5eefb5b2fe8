package repos

import (
	"database/sql"

	"owlbid/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const selectListing = `
  SELECT
    l.id, l.seller_id, s.username AS seller_name,
    l.title, COALESCE(l.description,'') AS description, l.category_id,
    l.current_price, COALESCE(l.image_url,'') AS image_url,
    l.closed, COALESCE(l.winner_id,'') AS winner_id, COALESCE(w.username,'') AS winner_name,
    l.created_at
  FROM listings l
  JOIN users s ON s.id = l.seller_id
  LEFT JOIN users w ON w.id = l.winner_id
`

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, selectListing+` WHERE l.id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, err
}

func (r *ListingRepo) ListLatest(limit, offset int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  ORDER BY l.created_at DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ListingRepo) ListByCategory(catID string, limit, offset int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  WHERE l.category_id = ?
	  ORDER BY l.created_at DESC
	  LIMIT ? OFFSET ?
	`, catID, limit, offset)
	return out, err
}

// Create inserts a new open listing and returns its id.
func (r *ListingRepo) Create(sellerID, title, description, categoryID, imageURL string, startPrice float64) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`
	  INSERT INTO listings(id,seller_id,title,description,category_id,current_price,image_url)
	  VALUES(?,?,?,?,?,?,?)
	`, id, sellerID, title, description, categoryID, startPrice, imageURL)
	if err != nil {
		return "", err
	}
	return id, nil
}

// PlaceBid records a bid inside a transaction. State and price are
// re-read in the transaction, and the price update is guarded so a
// concurrent bid that commits first makes this one fail with
// ErrBidTooLow instead of lowering the price.
func (r *ListingRepo) PlaceBid(listingID, bidderID string, amount float64) (domain.Bid, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Bid{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row struct {
		Closed       bool    `db:"closed"`
		CurrentPrice float64 `db:"current_price"`
	}
	if err := tx.Get(&row, `SELECT closed, current_price FROM listings WHERE id=?`, listingID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Bid{}, domain.ErrListingNotFound
		}
		return domain.Bid{}, err
	}
	if row.Closed {
		return domain.Bid{}, domain.ErrListingClosed
	}
	if amount <= row.CurrentPrice {
		return domain.Bid{}, domain.ErrBidTooLow
	}

	res, err := tx.Exec(`
		UPDATE listings SET current_price=?
		WHERE id=? AND closed=0 AND current_price<?
	`, amount, listingID, amount)
	if err != nil {
		return domain.Bid{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Bid{}, domain.ErrBidTooLow
	}

	b := domain.Bid{ID: uuid.NewString(), ListingID: listingID, BidderID: bidderID, Amount: amount}
	if _, err := tx.Exec(`
		INSERT INTO bids(id,listing_id,bidder_id,amount) VALUES(?,?,?,?)
	`, b.ID, b.ListingID, b.BidderID, b.Amount); err != nil {
		return domain.Bid{}, err
	}

	return b, tx.Commit()
}

// Close ends bidding. The winner is the bidder of the highest bid at
// close time (most recent on equal amounts), or nobody if no bids exist.
func (r *ListingRepo) Close(listingID, actorID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var row struct {
		SellerID string `db:"seller_id"`
		Closed   bool   `db:"closed"`
	}
	if err := tx.Get(&row, `SELECT seller_id, closed FROM listings WHERE id=?`, listingID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrListingNotFound
		}
		return err
	}
	if row.SellerID != actorID {
		return domain.ErrNotSeller
	}
	if row.Closed {
		return domain.ErrListingClosed
	}

	var winnerID any
	var bidder string
	err = tx.Get(&bidder, `
		SELECT bidder_id FROM bids
		WHERE listing_id=?
		ORDER BY amount DESC, created_at DESC
		LIMIT 1
	`, listingID)
	switch err {
	case nil:
		winnerID = bidder
	case sql.ErrNoRows:
		winnerID = nil
	default:
		return err
	}

	res, err := tx.Exec(`UPDATE listings SET closed=1, winner_id=? WHERE id=? AND closed=0`, winnerID, listingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingClosed
	}

	return tx.Commit()
}

// Reopen clears the winner and accepts bids again.
func (r *ListingRepo) Reopen(listingID, actorID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var row struct {
		SellerID string `db:"seller_id"`
		Closed   bool   `db:"closed"`
	}
	if err := tx.Get(&row, `SELECT seller_id, closed FROM listings WHERE id=?`, listingID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrListingNotFound
		}
		return err
	}
	if row.SellerID != actorID {
		return domain.ErrNotSeller
	}
	if !row.Closed {
		return domain.ErrListingOpen
	}

	res, err := tx.Exec(`UPDATE listings SET closed=0, winner_id=NULL WHERE id=? AND closed=1`, listingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingOpen
	}

	return tx.Commit()
}

// ---------- User panel partitions ----------

func (r *ListingRepo) Selling(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  WHERE l.seller_id = ? AND l.closed = 0
	  ORDER BY l.created_at DESC
	`, userID)
	return out, err
}

func (r *ListingRepo) Sold(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  WHERE l.seller_id = ? AND l.closed = 1
	  ORDER BY l.created_at DESC
	`, userID)
	return out, err
}

// BiddingOn returns open listings the user has bid on but does not own.
func (r *ListingRepo) BiddingOn(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  WHERE l.closed = 0 AND l.seller_id <> ?
	    AND EXISTS (SELECT 1 FROM bids b WHERE b.listing_id = l.id AND b.bidder_id = ?)
	  ORDER BY l.created_at DESC
	`, userID, userID)
	return out, err
}

func (r *ListingRepo) Won(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, selectListing+`
	  WHERE l.closed = 1 AND l.winner_id = ?
	  ORDER BY l.created_at DESC
	`, userID)
	return out, err
}
