package services

import (
	"strings"

	"owlbid/internal/domain"
	"owlbid/internal/repos"
)

// AuctionService owns the listing lifecycle: bids, close/reopen and
// comments. Every precondition failure comes back as a domain error the
// handlers can surface as a message on the re-rendered page.
type AuctionService struct {
	Listings *repos.ListingRepo
	Bids     *repos.BidRepo
	Comments *repos.CommentRepo
}

func NewAuctionService(listings *repos.ListingRepo, bids *repos.BidRepo, comments *repos.CommentRepo) *AuctionService {
	return &AuctionService{Listings: listings, Bids: bids, Comments: comments}
}

// PlaceBid accepts a bid strictly above the current price on an open
// listing. On success the listing's price is already updated.
func (s *AuctionService) PlaceBid(listingID, bidderID string, amount float64) (domain.Bid, error) {
	if amount <= 0 {
		return domain.Bid{}, domain.ErrBidNotPositive
	}
	return s.Listings.PlaceBid(listingID, bidderID, amount)
}

// Close ends bidding; only the seller may close an open listing.
func (s *AuctionService) Close(listingID, actorID string) error {
	return s.Listings.Close(listingID, actorID)
}

// Reopen reinstates bidding; only the seller may reopen a closed
// listing. The previous winner is cleared.
func (s *AuctionService) Reopen(listingID, actorID string) error {
	return s.Listings.Reopen(listingID, actorID)
}

func (s *AuctionService) AddComment(listingID, authorID, body string) error {
	if strings.TrimSpace(body) == "" {
		return domain.ErrEmptyComment
	}
	if _, err := s.Listings.Get(listingID); err != nil {
		return err
	}
	_, err := s.Comments.Add(listingID, authorID, body)
	return err
}

func (s *AuctionService) HighestBid(listingID string) (*domain.Bid, error) {
	return s.Bids.Highest(listingID)
}

func (s *AuctionService) BidsCount(listingID string) (int, error) {
	return s.Bids.Count(listingID)
}

func (s *AuctionService) CommentsFor(listingID string) ([]domain.Comment, error) {
	return s.Comments.ListByListing(listingID)
}

// UserListings is the user panel partition: what the user is selling,
// has sold, is bidding on, and has won.
type UserListings struct {
	Selling []domain.Listing
	Sold    []domain.Listing
	Bidding []domain.Listing
	Won     []domain.Listing
}

func (s *AuctionService) ListingsForUser(userID string) (UserListings, error) {
	var out UserListings
	var err error
	if out.Selling, err = s.Listings.Selling(userID); err != nil {
		return out, err
	}
	if out.Sold, err = s.Listings.Sold(userID); err != nil {
		return out, err
	}
	if out.Bidding, err = s.Listings.BiddingOn(userID); err != nil {
		return out, err
	}
	if out.Won, err = s.Listings.Won(userID); err != nil {
		return out, err
	}
	return out, nil
}
