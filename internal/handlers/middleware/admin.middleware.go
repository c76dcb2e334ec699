package middleware

import (
	"strings"

	"ecobayanihan/internal/types"

	"github.com/gofiber/fiber/v2"
)

var adminSurfaces = []string{"/custom-admin", "/admin"}

// isAdminPath matches the way the router does, which ignores case.
func isAdminPath(path string) bool {
	path = strings.ToLower(path)
	for _, prefix := range adminSurfaces {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// AdminIdleTimeout runs the sliding idle window for staff sessions on the
// admin surface. An expired session is flushed and the client is sent back to
// the admin login.
func (m *Middleware) AdminIdleTimeout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isAdminPath(c.Path()) {
			return c.Next()
		}

		session := GetSession(c)
		if !session.IsStaff() {
			return c.Next()
		}

		ctx := c.UserContext()
		state := session.TouchAdmin(m.now(), m.Config.AdminIdleTimeout())
		if state != types.AdminExpired {
			return c.Next()
		}

		log := m.log.Function("AdminIdleTimeout").TraceFromContext(ctx)
		log.Info("admin session expired", "staffID", session.StaffID)

		if err := m.sessions.Destroy(ctx, session); err != nil {
			log.Er("failed to destroy expired session", err)
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    "Your admin session expired due to inactivity.",
			"redirect": "/admin-login",
		})
	}
}
