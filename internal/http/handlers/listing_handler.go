package handlers

import (
	"owlbid/internal/domain"
	applog "owlbid/internal/log"
	"owlbid/internal/services"
	"owlbid/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Catalog *services.CatalogService
	Auction *services.AuctionService
	Watch   *services.WatchlistService
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// detail renders the listing page with everything the template needs:
// price, bid count, highest bidder, comments and the watchlist flag.
func (h *ListingHandler) detail(c *fiber.Ctx, l domain.Listing, status int, errMsg, msg string) error {
	highest, err := h.Auction.HighestBid(l.ID)
	if err != nil {
		return err
	}
	count, err := h.Auction.BidsCount(l.ID)
	if err != nil {
		return err
	}
	comments, err := h.Auction.CommentsFor(l.ID)
	if err != nil {
		return err
	}
	watched := false
	isSeller := false
	wonByMe := false
	if u := currentUser(c); u != nil {
		if watched, err = h.Watch.IsWatched(u.ID, l.ID); err != nil {
			return err
		}
		isSeller = u.ID == l.SellerID
		wonByMe = l.Closed && l.WinnerID == u.ID
	}
	cat, _ := h.Catalog.GetCategory(l.CategoryID)

	data := fiber.Map{
		"L":        l,
		"Category": cat,
		"Highest":  highest,
		"BidCount": count,
		"Comments": comments,
		"Watched":  watched,
		"IsSeller": isSeller,
		"WonByMe":  wonByMe,
		"Err":      errMsg,
		"Msg":      msg,
	}
	return c.Status(status).Render("listing", injectCommon(c, data))
}

// injectCommon mirrors render() for handlers that need a status code.
func injectCommon(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	return data
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}
	msg := ""
	if c.Query("msg") == "highest" {
		msg = "Your bid is now the highest bid."
	}
	return h.detail(c, l, 200, "", msg)
}

func (h *ListingHandler) NewForm(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	return render(c, "listing_new", fiber.Map{"Categories": cats, "Err": ""})
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	fail := func(msg string) error {
		return c.Status(400).Render("listing_new", injectCommon(c, fiber.Map{"Categories": cats, "Err": msg}))
	}

	title, ok := validate.Title(c.FormValue("title"))
	if !ok {
		return fail("Title must be 1-64 characters.")
	}
	price, ok := validate.Amount(c.FormValue("price"))
	if !ok {
		return fail("Starting price must be a positive amount.")
	}
	catID, ok := validate.ID(c.FormValue("category"))
	if !ok {
		return fail("Please pick a category.")
	}
	imageURL, ok := validate.ImageURL(c.FormValue("image_url"))
	if !ok {
		return fail("Image URL must start with http:// or https://.")
	}
	description := c.FormValue("description")

	id, err := h.Catalog.CreateListing(u.ID, title, description, catID, imageURL, price)
	if err != nil {
		applog.Error(c, "listing.create.fail", err, map[string]any{"title": title})
		return fail("Could not create the listing. Please check the category and try again.")
	}
	applog.Audit(c, "listing.create", map[string]any{"listing_id": id})
	return c.Redirect("/listings/" + id)
}

func (h *ListingHandler) Bid(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}

	amount, ok := validate.Amount(c.FormValue("amount"))
	if !ok {
		return h.detail(c, l, 400, domain.ErrBidNotPositive.Error(), "")
	}

	if _, err := h.Auction.PlaceBid(id, u.ID, amount); err != nil {
		switch err {
		case domain.ErrBidTooLow, domain.ErrBidNotPositive, domain.ErrListingClosed:
			applog.Info(c, "bid.rejected", map[string]any{"listing_id": id, "amount": amount, "reason": err.Error()})
			// Re-read so the page shows the price that beat us.
			if cur, gerr := h.Catalog.GetListing(id); gerr == nil {
				l = cur
			}
			return h.detail(c, l, 400, err.Error(), "")
		case domain.ErrListingNotFound:
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
		default:
			applog.Error(c, "bid.fail", err, map[string]any{"listing_id": id})
			return err
		}
	}

	applog.Audit(c, "bid.placed", map[string]any{"listing_id": id, "amount": amount})
	return c.Redirect("/listings/" + id + "?msg=highest")
}

func (h *ListingHandler) Close(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}

	if err := h.Auction.Close(id, u.ID); err != nil {
		switch err {
		case domain.ErrNotSeller:
			applog.Security(c, "access.denied.close", map[string]any{"listing_id": id})
			return c.Status(403).Render("notfound", fiber.Map{"Message": "Only the seller may close this auction"})
		case domain.ErrListingNotFound:
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
		case domain.ErrListingClosed:
			if l, gerr := h.Catalog.GetListing(id); gerr == nil {
				return h.detail(c, l, 400, err.Error(), "")
			}
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
		default:
			applog.Error(c, "listing.close.fail", err, map[string]any{"listing_id": id})
			return err
		}
	}

	applog.Audit(c, "listing.close", map[string]any{"listing_id": id})
	return c.Redirect("/listings/" + id)
}

func (h *ListingHandler) Reopen(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}

	if err := h.Auction.Reopen(id, u.ID); err != nil {
		switch err {
		case domain.ErrNotSeller:
			applog.Security(c, "access.denied.reopen", map[string]any{"listing_id": id})
			return c.Status(403).Render("notfound", fiber.Map{"Message": "Only the seller may reopen this auction"})
		case domain.ErrListingNotFound:
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
		case domain.ErrListingOpen:
			if l, gerr := h.Catalog.GetListing(id); gerr == nil {
				return h.detail(c, l, 400, err.Error(), "")
			}
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
		default:
			applog.Error(c, "listing.reopen.fail", err, map[string]any{"listing_id": id})
			return err
		}
	}

	applog.Audit(c, "listing.reopen", map[string]any{"listing_id": id})
	return c.Redirect("/listings/" + id)
}

func (h *ListingHandler) Comment(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}
	l, err := h.Catalog.GetListing(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This auction does not exist"})
	}

	body, ok := validate.Comment(c.FormValue("body"))
	if !ok {
		return h.detail(c, l, 400, domain.ErrEmptyComment.Error(), "")
	}
	if err := h.Auction.AddComment(id, u.ID, body); err != nil {
		if err == domain.ErrEmptyComment {
			return h.detail(c, l, 400, err.Error(), "")
		}
		applog.Error(c, "comment.fail", err, map[string]any{"listing_id": id})
		return err
	}

	applog.Audit(c, "comment.added", map[string]any{"listing_id": id})
	return c.Redirect("/listings/" + id)
}
