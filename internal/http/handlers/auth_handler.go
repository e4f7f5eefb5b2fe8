package handlers

import (
	"time"

	"owlbid/internal/domain"
	"owlbid/internal/log"
	"owlbid/internal/services"
	"owlbid/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	pass := c.FormValue("password")
	if _, ok := validate.Username(username); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username and/or password.", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, username, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username and/or password.", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	tok := c.Cookies("csrf_")

	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		return c.Status(400).Render("register", fiber.Map{"Err": "Username must be 3-30 letters, digits or underscores.", "CSRFToken": tok})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(400).Render("register", fiber.Map{"Err": "Please enter a valid email address.", "CSRFToken": tok})
	}
	pass := c.FormValue("password")
	if pass != c.FormValue("confirmation") {
		return c.Status(400).Render("register", fiber.Map{"Err": "Passwords must match.", "CSRFToken": tok})
	}
	if !validate.Password(pass) {
		return c.Status(400).Render("register", fiber.Map{"Err": "Password must be 8-64 characters with upper, lower, digit and symbol.", "CSRFToken": tok})
	}

	_, err := h.Auth.Register(sid, username, email, pass)
	if err == domain.ErrUsernameTaken {
		return c.Status(400).Render("register", fiber.Map{"Err": "Username already taken.", "CSRFToken": tok})
	}
	if err != nil {
		log.Error(c, "auth.register.fail", err, map[string]any{"username": username})
		return c.Status(500).Render("register", fiber.Map{"Err": "Could not create the account. Please try again.", "CSRFToken": tok})
	}

	log.Audit(c, "auth.register.success", map[string]any{"username": username})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
