package handlers

import (
	applog "owlbid/internal/log"
	"owlbid/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PanelHandler struct {
	Auction *services.AuctionService
}

// Panel shows the user's auctions split into selling, sold,
// bidding-on and won.
func (h *PanelHandler) Panel(c *fiber.Ctx) error {
	u := currentUser(c)
	parts, err := h.Auction.ListingsForUser(u.ID)
	if err != nil {
		applog.Error(c, "panel.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your auctions"})
	}
	return render(c, "user_panel", fiber.Map{
		"Selling": parts.Selling,
		"Sold":    parts.Sold,
		"Bidding": parts.Bidding,
		"Won":     parts.Won,
	})
}
