package handlers

import (
	"owlbid/internal/config"
	"owlbid/internal/repos"
	"owlbid/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler  *CategoryHandler
	ListingHandler   *ListingHandler
	WatchlistHandler *WatchlistHandler
	PanelHandler     *PanelHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	listingRepo := repos.NewListingRepo(db)
	bidRepo := repos.NewBidRepo(db)
	commentRepo := repos.NewCommentRepo(db)
	watchRepo := repos.NewWatchlistRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, listingRepo)
	auctionSvc := services.NewAuctionService(listingRepo, bidRepo, commentRepo)
	watchSvc := services.NewWatchlistService(watchRepo)

	return &Deps{
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ListingHandler:   &ListingHandler{Catalog: catalogSvc, Auction: auctionSvc, Watch: watchSvc},
		WatchlistHandler: &WatchlistHandler{Watch: watchSvc},
		PanelHandler:     &PanelHandler{Auction: auctionSvc},
	}
}
