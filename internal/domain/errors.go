package domain

import "errors"

// Not-found and authorization errors surface as error pages;
// the rest are re-rendered as a message next to the form that caused them.
var (
	ErrListingNotFound = errors.New("listing not found")

	ErrNotSeller = errors.New("only the seller may do that")

	ErrListingClosed  = errors.New("this auction is closed")
	ErrListingOpen    = errors.New("this auction is still open")
	ErrBidNotPositive = errors.New("bid must be a positive amount")
	ErrBidTooLow      = errors.New("bid must exceed the current price")
	ErrEmptyComment   = errors.New("comment must not be empty")

	ErrUsernameTaken = errors.New("username already taken")
)
