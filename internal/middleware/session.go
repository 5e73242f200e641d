package middleware

import (
	"time"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie carries the session id between requests.
	SessionCookie = "sid"
	// SessionHeader lets non-browser clients pass the session id explicitly.
	SessionHeader = "X-Session-ID"

	sessionKey = "session"
)

// Session attaches the caller's session to the request, creating one on the
// first visit. The id is echoed back in a cookie and a response header.
func Session(store *services.SessionStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if id == "" {
			id = c.Get(SessionHeader)
		}

		sess, created := store.GetOrCreate(id)
		if created || id != sess.ID {
			cookie := &fiber.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			}
			if ttl > 0 {
				cookie.Expires = time.Now().Add(ttl)
			}
			c.Cookie(cookie)
		}
		c.Set(SessionHeader, sess.ID)
		c.Locals(sessionKey, sess)

		return c.Next()
	}
}

// CurrentSession returns the session attached by Session.
func CurrentSession(c *fiber.Ctx) *services.Session {
	sess, _ := c.Locals(sessionKey).(*services.Session)
	return sess
}
