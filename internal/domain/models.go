package domain

type Category struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Listing struct {
	ID           string  `db:"id"`
	SellerID     string  `db:"seller_id"`
	SellerName   string  `db:"seller_name"`
	Title        string  `db:"title"`
	Description  string  `db:"description"`
	CategoryID   string  `db:"category_id"`
	CurrentPrice float64 `db:"current_price"`
	ImageURL     string  `db:"image_url"`
	Closed       bool    `db:"closed"`
	WinnerID     string  `db:"winner_id"`
	WinnerName   string  `db:"winner_name"`
	CreatedAt    string  `db:"created_at"`
}

type Bid struct {
	ID         string  `db:"id"`
	ListingID  string  `db:"listing_id"`
	BidderID   string  `db:"bidder_id"`
	BidderName string  `db:"bidder_name"`
	Amount     float64 `db:"amount"`
	CreatedAt  string  `db:"created_at"`
}

type Comment struct {
	ID         string `db:"id"`
	ListingID  string `db:"listing_id"`
	AuthorID   string `db:"author_id"`
	AuthorName string `db:"author_name"`
	Body       string `db:"body"`
	CreatedAt  string `db:"created_at"`
}
