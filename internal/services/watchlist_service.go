package services

import (
	"owlbid/internal/domain"
	"owlbid/internal/repos"
)

type WatchlistService struct {
	Repo *repos.WatchlistRepo
}

func NewWatchlistService(r *repos.WatchlistRepo) *WatchlistService { return &WatchlistService{Repo: r} }

func (s *WatchlistService) Save(userID, listingID string) error {
	return s.Repo.Add(userID, listingID)
}

func (s *WatchlistService) Unsave(userID, listingID string) error {
	return s.Repo.Remove(userID, listingID)
}

func (s *WatchlistService) IsWatched(userID, listingID string) (bool, error) {
	return s.Repo.IsWatched(userID, listingID)
}

func (s *WatchlistService) List(userID string) ([]domain.Listing, error) {
	return s.Repo.List(userID)
}
