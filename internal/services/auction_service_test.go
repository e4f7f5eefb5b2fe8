package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"owlbid/internal/domain"
	"owlbid/internal/repos"
	"owlbid/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func newAuction(t *testing.T, db *sqlx.DB) (*services.AuctionService, *services.CatalogService) {
	t.Helper()
	listingRepo := repos.NewListingRepo(db)
	svc := services.NewAuctionService(listingRepo, repos.NewBidRepo(db), repos.NewCommentRepo(db))
	cat := services.NewCatalogService(repos.NewCategoryRepo(db), listingRepo)
	return svc, cat
}

func mustCreateListing(t *testing.T, cat *services.CatalogService, sellerID string, price float64) string {
	t.Helper()
	id, err := cat.CreateListing(sellerID, "Invisibility Cloak", "Slightly frayed hem.", "clothing", "", price)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// Scenario from the bidding rules: 10.00 start, 12.00 accepted, a second
// 12.00 rejected (not strictly greater), 15.00 accepted, close picks the
// 15.00 bidder.
func TestPlaceBidStrictlyIncreasing(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	if _, err := svc.PlaceBid(lid, "u-minerva", 12.00); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	l, err := cat.GetListing(lid)
	if err != nil {
		t.Fatal(err)
	}
	if l.CurrentPrice != 12.00 {
		t.Fatalf("want price 12.00, got %.2f", l.CurrentPrice)
	}

	// equal amount is not strictly greater
	if _, err := svc.PlaceBid(lid, "u-newt", 12.00); err != domain.ErrBidTooLow {
		t.Fatalf("want ErrBidTooLow, got %v", err)
	}
	// rejection must not mutate anything
	l, _ = cat.GetListing(lid)
	if l.CurrentPrice != 12.00 {
		t.Fatalf("rejected bid changed price to %.2f", l.CurrentPrice)
	}
	if n, _ := svc.BidsCount(lid); n != 1 {
		t.Fatalf("rejected bid recorded, count=%d", n)
	}

	if _, err := svc.PlaceBid(lid, "u-newt", 15.00); err != nil {
		t.Fatalf("third bid: %v", err)
	}
	l, _ = cat.GetListing(lid)
	if l.CurrentPrice != 15.00 {
		t.Fatalf("want price 15.00, got %.2f", l.CurrentPrice)
	}

	if err := svc.Close(lid, "u-albus"); err != nil {
		t.Fatalf("close: %v", err)
	}
	l, _ = cat.GetListing(lid)
	if !l.Closed || l.WinnerID != "u-newt" {
		t.Fatalf("want closed with winner u-newt, got closed=%v winner=%q", l.Closed, l.WinnerID)
	}

	// closed listings accept no further bids
	if _, err := svc.PlaceBid(lid, "u-minerva", 20.00); err != domain.ErrListingClosed {
		t.Fatalf("want ErrListingClosed, got %v", err)
	}
}

func TestPlaceBidRejectsNonPositive(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	for _, amount := range []float64{0, -5} {
		if _, err := svc.PlaceBid(lid, "u-minerva", amount); err != domain.ErrBidNotPositive {
			t.Fatalf("amount %.2f: want ErrBidNotPositive, got %v", amount, err)
		}
	}
	if n, _ := svc.BidsCount(lid); n != 0 {
		t.Fatalf("non-positive bid recorded, count=%d", n)
	}
}

func TestPlaceBidUnknownListing(t *testing.T) {
	db := memdb(t)
	svc, _ := newAuction(t, db)
	if _, err := svc.PlaceBid("no-such-listing", "u-minerva", 5.00); err != domain.ErrListingNotFound {
		t.Fatalf("want ErrListingNotFound, got %v", err)
	}
}

func TestCloseWithNoBidsAndReopen(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	if err := svc.Close(lid, "u-albus"); err != nil {
		t.Fatalf("close: %v", err)
	}
	l, _ := cat.GetListing(lid)
	if !l.Closed || l.WinnerID != "" {
		t.Fatalf("zero-bid close: want no winner, got closed=%v winner=%q", l.Closed, l.WinnerID)
	}

	// double close is a state failure
	if err := svc.Close(lid, "u-albus"); err != domain.ErrListingClosed {
		t.Fatalf("want ErrListingClosed, got %v", err)
	}

	if err := svc.Reopen(lid, "u-albus"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l, _ = cat.GetListing(lid)
	if l.Closed || l.WinnerID != "" {
		t.Fatalf("reopen: want open with no winner, got closed=%v winner=%q", l.Closed, l.WinnerID)
	}

	// bidding works again after reopen
	if _, err := svc.PlaceBid(lid, "u-newt", 11.00); err != nil {
		t.Fatalf("bid after reopen: %v", err)
	}
	// reopening an open listing is a state failure
	if err := svc.Reopen(lid, "u-albus"); err != domain.ErrListingOpen {
		t.Fatalf("want ErrListingOpen, got %v", err)
	}
}

func TestReopenClearsWinner(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	if _, err := svc.PlaceBid(lid, "u-minerva", 20.00); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(lid, "u-albus"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reopen(lid, "u-albus"); err != nil {
		t.Fatal(err)
	}
	l, _ := cat.GetListing(lid)
	if l.WinnerID != "" {
		t.Fatalf("reopen left winner %q", l.WinnerID)
	}
	// price stays where the bidding left it
	if l.CurrentPrice != 20.00 {
		t.Fatalf("want price 20.00 after reopen, got %.2f", l.CurrentPrice)
	}
}

func TestCloseAndReopenAreSellerOnly(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	if err := svc.Close(lid, "u-minerva"); err != domain.ErrNotSeller {
		t.Fatalf("close by non-seller: want ErrNotSeller, got %v", err)
	}
	if err := svc.Close(lid, "u-albus"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reopen(lid, "u-minerva"); err != domain.ErrNotSeller {
		t.Fatalf("reopen by non-seller: want ErrNotSeller, got %v", err)
	}
}

func TestHighestBidTracksLastAccepted(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 1.00)

	if b, err := svc.HighestBid(lid); err != nil || b != nil {
		t.Fatalf("no bids yet: want nil, got %+v err=%v", b, err)
	}

	amounts := []float64{2.00, 3.50, 9.99}
	bidders := []string{"u-minerva", "u-newt", "u-minerva"}
	for i := range amounts {
		if _, err := svc.PlaceBid(lid, bidders[i], amounts[i]); err != nil {
			t.Fatalf("bid %d: %v", i, err)
		}
	}

	b, err := svc.HighestBid(lid)
	if err != nil {
		t.Fatal(err)
	}
	if b == nil || b.Amount != 9.99 || b.BidderID != "u-minerva" {
		t.Fatalf("want 9.99 by u-minerva, got %+v", b)
	}
	if n, _ := svc.BidsCount(lid); n != 3 {
		t.Fatalf("want 3 bids, got %d", n)
	}
}

func TestAddComment(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	if err := svc.AddComment(lid, "u-minerva", "   "); err != domain.ErrEmptyComment {
		t.Fatalf("blank comment: want ErrEmptyComment, got %v", err)
	}
	if err := svc.AddComment("no-such-listing", "u-minerva", "hello"); err != domain.ErrListingNotFound {
		t.Fatalf("want ErrListingNotFound, got %v", err)
	}

	if err := svc.AddComment(lid, "u-minerva", "Does it still turn its wearer invisible?"); err != nil {
		t.Fatal(err)
	}
	comments, err := svc.CommentsFor(lid)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].AuthorName != "minerva" {
		t.Fatalf("bad comments: %+v", comments)
	}
}

func TestListingsForUserPartition(t *testing.T) {
	db := memdb(t)
	svc, cat := newAuction(t, db)

	selling := mustCreateListing(t, cat, "u-albus", 10.00)
	sold := mustCreateListing(t, cat, "u-albus", 10.00)
	other := mustCreateListing(t, cat, "u-minerva", 10.00)
	wonable := mustCreateListing(t, cat, "u-minerva", 10.00)

	// albus sells one and closes another with a bid on it
	if _, err := svc.PlaceBid(sold, "u-newt", 30.00); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(sold, "u-albus"); err != nil {
		t.Fatal(err)
	}
	// albus bids on minerva's open listing
	if _, err := svc.PlaceBid(other, "u-albus", 12.00); err != nil {
		t.Fatal(err)
	}
	// albus wins another of minerva's listings
	if _, err := svc.PlaceBid(wonable, "u-albus", 42.00); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(wonable, "u-minerva"); err != nil {
		t.Fatal(err)
	}

	parts, err := svc.ListingsForUser("u-albus")
	if err != nil {
		t.Fatal(err)
	}
	has := func(ls []domain.Listing, id string) bool {
		for _, l := range ls {
			if l.ID == id {
				return true
			}
		}
		return false
	}
	if !has(parts.Selling, selling) || has(parts.Selling, sold) {
		t.Fatalf("bad selling partition: %+v", parts.Selling)
	}
	if !has(parts.Sold, sold) {
		t.Fatalf("bad sold partition: %+v", parts.Sold)
	}
	if !has(parts.Bidding, other) || has(parts.Bidding, wonable) {
		t.Fatalf("bad bidding partition: %+v", parts.Bidding)
	}
	if !has(parts.Won, wonable) {
		t.Fatalf("bad won partition: %+v", parts.Won)
	}
}
