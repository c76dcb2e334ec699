package middleware

import (
	"errors"

	"ecobayanihan/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	ParticipantLocalKey = "participant"
	StaffLocalKey       = "staff"
)

// ResolveParticipant attaches the signed in participant when there is one.
// A session pointing at a deleted participant is treated as anonymous.
func (m *Middleware) ResolveParticipant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.Function("ResolveParticipant").TraceFromContext(c.UserContext())

		session := GetSession(c)
		if !session.IsParticipant() {
			return c.Next()
		}

		ctx := c.UserContext()
		participant, err := m.participantRepo.GetByEmail(ctx, m.tx.DB(ctx), session.ParticipantEmail)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Er("failed to resolve participant", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to load participant",
				})
			}
			return c.Next()
		}

		c.Locals(ParticipantLocalKey, participant)
		return c.Next()
	}
}

// RequireParticipant must run after ResolveParticipant.
func (m *Middleware) RequireParticipant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetParticipant(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "Please log in first.",
				"redirect": "/login",
			})
		}
		return c.Next()
	}
}

func (m *Middleware) RequireStaff() fiber.Handler {
	log := m.log.Function("RequireStaff")

	return func(c *fiber.Ctx) error {
		session := GetSession(c)
		if !session.IsStaff() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "Authentication required",
				"redirect": "/admin-login",
			})
		}

		ctx := c.UserContext()
		staff, err := m.staffRepo.GetByID(ctx, m.tx.DB(ctx), *session.StaffID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.TraceFromContext(ctx).Er("failed to load staff account", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load staff account",
			})
		}

		if staff == nil || !staff.CanAccessAdmin() {
			log.TraceFromContext(ctx).Info("staff session without active account", "staffID", session.StaffID)
			if err := m.sessions.Destroy(ctx, session); err != nil {
				log.TraceFromContext(ctx).Er("failed to destroy session", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":    "Authentication required",
				"redirect": "/admin-login",
			})
		}

		c.Locals(StaffLocalKey, staff)
		return c.Next()
	}
}

func GetParticipant(c *fiber.Ctx) *models.Participant {
	participant, ok := c.Locals(ParticipantLocalKey).(*models.Participant)
	if !ok {
		return nil
	}
	return participant
}

func GetStaff(c *fiber.Ctx) *models.StaffAccount {
	staff, ok := c.Locals(StaffLocalKey).(*models.StaffAccount)
	if !ok {
		return nil
	}
	return staff
}
