package handlers

import (
	"owlbid/internal/services"
	"owlbid/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// Home is the index: active and closed auctions, newest first.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	listings, err := h.Catalog.LatestListings(1, 24)
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{"Listings": listings})
}

func (h *CategoryHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	return render(c, "categories", fiber.Map{"Categories": cats})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "No such category"})
	}
	cat, err := h.Catalog.GetCategory(catID)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "No such category"})
	}
	listings, err := h.Catalog.ListingsByCategory(catID, 1, 24)
	if err != nil {
		return err
	}
	return render(c, "category", fiber.Map{"Category": cat, "Listings": listings})
}
