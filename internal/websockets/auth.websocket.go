package websockets

import (
	"ecobayanihan/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Role string

const (
	ROLE_PARTICIPANT Role = "participant"
	ROLE_STAFF       Role = "staff"
)

const (
	LOCAL_ALLOWED = "allowed"
	LOCAL_USER_ID = "wsUserID"
	LOCAL_ROLE    = "wsRole"
)

// Upgrade admits websocket upgrades from signed in participants and staff.
// The identity comes from the cookie session resolved by the global middleware.
func (m *Manager) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		userID, role, ok := identityFromRequest(c)
		if !ok {
			m.log.Function("Upgrade").TraceFromContext(c.UserContext()).
				Info("rejected anonymous websocket upgrade")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		c.Locals(LOCAL_ALLOWED, true)
		c.Locals(LOCAL_USER_ID, userID)
		c.Locals(LOCAL_ROLE, role)
		return c.Next()
	}
}

func identityFromRequest(c *fiber.Ctx) (uuid.UUID, Role, bool) {
	if participant := middleware.GetParticipant(c); participant != nil {
		return participant.ID, ROLE_PARTICIPANT, true
	}

	session := middleware.GetSession(c)
	if session.IsStaff() {
		return *session.StaffID, ROLE_STAFF, true
	}

	return uuid.Nil, "", false
}

func identityFromConn(c *websocket.Conn) (uuid.UUID, Role, bool) {
	userID, ok := c.Locals(LOCAL_USER_ID).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, "", false
	}
	role, ok := c.Locals(LOCAL_ROLE).(Role)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, role, true
}
