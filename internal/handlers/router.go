package handlers

import (
	"errors"

	"ecobayanihan/internal/app"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(
		app.Middleware.TraceID(),
		app.Middleware.Session(),
		app.Middleware.AdminIdleTimeout(),
		app.Middleware.ResolveParticipant(),
	)

	setupWebSocketRoute(router, app)

	HealthHandler(router, app.Config, app.Services.Scheduler)
	NewAuthHandler(*app, router).Register()
	NewCatalogHandler(*app, router).Register()
	NewRegistrationHandler(*app, router).Register()
	NewAdminHandler(*app, router).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Websocket.Upgrade())
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// errorStatus maps a domain error onto the response a client sees.
type errorStatus struct {
	err     error
	status  int
	message string
}

// respond renders err. Validation failures become 422 with field messages,
// mapped errors use their status and message, anything else is logged and
// hidden behind fallback.
func (h *Handler) respond(c *fiber.Ctx, err error, fallback string, mapped ...errorStatus) error {
	if validation, ok := types.AsValidationError(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(validation)
	}

	for _, m := range mapped {
		if errors.Is(err, m.err) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			return c.Status(m.status).JSON(fiber.Map{"error": message})
		}
	}

	h.log.TraceFromContext(c.UserContext()).Er(fallback, err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

func (h *Handler) badRequest(c *fiber.Ctx, err error) error {
	h.log.TraceFromContext(c.UserContext()).Warn("Invalid request body", "error", err, "path", c.Path())
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func pathID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}
