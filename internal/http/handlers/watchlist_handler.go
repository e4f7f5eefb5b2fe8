package handlers

import (
	applog "owlbid/internal/log"
	"owlbid/internal/services"
	"owlbid/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type WatchlistHandler struct {
	Watch *services.WatchlistService
}

func (h *WatchlistHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	items, err := h.Watch.List(u.ID)
	if err != nil {
		applog.Error(c, "watchlist.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your watchlist"})
	}
	return render(c, "watchlist", fiber.Map{"Listings": items})
}

func (h *WatchlistHandler) Save(c *fiber.Ctx) error {
	u := currentUser(c)
	lid, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Watch.Save(u.ID, lid); err != nil {
		applog.Error(c, "watchlist.save.fail", err, map[string]any{"listing": lid})
		return c.Status(500).SendString("Could not save listing")
	}
	applog.Audit(c, "watchlist.save", map[string]any{"listing": lid})
	// redirect back to the listing or the watchlist
	back := c.Get("Referer")
	if back == "" {
		back = "/watchlist"
	}
	return c.Redirect(back)
}

func (h *WatchlistHandler) Unsave(c *fiber.Ctx) error {
	u := currentUser(c)
	lid, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Watch.Unsave(u.ID, lid); err != nil {
		applog.Error(c, "watchlist.unsave.fail", err, map[string]any{"listing": lid})
		return c.Status(500).SendString("Could not remove listing")
	}
	applog.Audit(c, "watchlist.unsave", map[string]any{"listing": lid})
	back := c.Get("Referer")
	if back == "" {
		back = "/watchlist"
	}
	return c.Redirect(back)
}
