package services

import (
	"owlbid/internal/domain"
	"owlbid/internal/repos"
)

type CatalogService struct {
	Cats     *repos.CategoryRepo
	Listings *repos.ListingRepo
}

func NewCatalogService(cats *repos.CategoryRepo, listings *repos.ListingRepo) *CatalogService {
	return &CatalogService{Cats: cats, Listings: listings}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) GetCategory(id string) (domain.Category, error) {
	return s.Cats.Get(id)
}

func (s *CatalogService) LatestListings(page, pageSize int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Listings.ListLatest(pageSize, offset)
}

func (s *CatalogService) ListingsByCategory(catID string, page, pageSize int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Listings.ListByCategory(catID, pageSize, offset)
}

func (s *CatalogService) GetListing(id string) (domain.Listing, error) {
	return s.Listings.Get(id)
}

// CreateListing opens a new auction at the given starting price.
func (s *CatalogService) CreateListing(sellerID, title, description, categoryID, imageURL string, startPrice float64) (string, error) {
	if _, err := s.Cats.Get(categoryID); err != nil {
		return "", err
	}
	return s.Listings.Create(sellerID, title, description, categoryID, imageURL, startPrice)
}
