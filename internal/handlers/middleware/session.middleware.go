package middleware

import (
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	"github.com/gofiber/fiber/v2"
)

const SessionLocalKey = "session"

// Session loads the cookie session before the handler runs and writes it back
// afterwards when the handler changed or destroyed it.
func (m *Middleware) Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		session := m.sessions.Load(ctx, c.Cookies(services.SESSION_COOKIE_NAME))
		c.Locals(SessionLocalKey, session)

		err := c.Next()

		m.persistSession(c, session)
		return err
	}
}

func (m *Middleware) persistSession(c *fiber.Ctx, session *types.Session) {
	log := m.log.Function("persistSession").TraceFromContext(c.UserContext())

	if session.Destroyed() {
		c.ClearCookie(services.SESSION_COOKIE_NAME)
		return
	}

	if !session.Dirty() {
		return
	}

	token, err := m.sessions.Save(c.UserContext(), session)
	if err != nil {
		log.Er("failed to persist session", err, "sessionID", session.ID)
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.SESSION_COOKIE_NAME,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.sessions.TTL()),
		HTTPOnly: true,
		Secure:   !m.Config.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetSession returns the request session. Handlers mounted behind Session
// always receive a non nil value.
func GetSession(c *fiber.Ctx) *types.Session {
	session, ok := c.Locals(SessionLocalKey).(*types.Session)
	if !ok {
		return nil
	}
	return session
}
