package services_test

import (
	"testing"

	"owlbid/internal/repos"
	"owlbid/internal/services"
)

func TestWatchlistToggleIsIdempotent(t *testing.T) {
	db := memdb(t)
	_, cat := newAuction(t, db)
	svc := services.NewWatchlistService(repos.NewWatchlistRepo(db))
	lid := mustCreateListing(t, cat, "u-albus", 10.00)

	// double add keeps a single entry
	if err := svc.Save("u-minerva", lid); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save("u-minerva", lid); err != nil {
		t.Fatalf("second add: %v", err)
	}
	items, err := svc.List("u-minerva")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 watchlist entry, got %d", len(items))
	}
	if watched, _ := svc.IsWatched("u-minerva", lid); !watched {
		t.Fatal("expected listing to be watched")
	}

	// removing a missing entry is a no-op
	if err := svc.Unsave("u-newt", lid); err != nil {
		t.Fatalf("remove of missing entry: %v", err)
	}

	// two users watch the same listing independently
	if err := svc.Save("u-newt", lid); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsave("u-minerva", lid); err != nil {
		t.Fatal(err)
	}
	if watched, _ := svc.IsWatched("u-minerva", lid); watched {
		t.Fatal("minerva's entry should be gone")
	}
	if watched, _ := svc.IsWatched("u-newt", lid); !watched {
		t.Fatal("newt's entry should survive")
	}
}
