package handlers

import (
	"ecobayanihan/internal/app"
	catalogController "ecobayanihan/internal/controllers/catalog"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read only event and history views. All of them
// work for anonymous visitors; participant data is added when signed in.
type CatalogHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CatalogHandler) Register() {
	h.router.Get("/select-event", h.selectEvent)
	h.router.Get("/previous-events", h.previousEvents)
	h.router.Get("/event-history", h.eventHistory)
	h.router.Get("/points-history", h.pointsHistory)
	h.router.Get("/combined-history", h.combinedHistory)
}

func (h *CatalogHandler) selectEvent(c *fiber.Ctx) error {
	view, err := h.catalogController.SelectEventView(
		c.UserContext(),
		middleware.GetSession(c),
		middleware.GetParticipant(c),
	)
	if err != nil {
		return h.respond(c, err, "Failed to load events")
	}

	return c.JSON(view)
}

func (h *CatalogHandler) previousEvents(c *fiber.Ctx) error {
	var query types.PreviousEventsQuery
	if err := c.QueryParser(&query); err != nil {
		return h.badRequest(c, err)
	}

	view, err := h.catalogController.PreviousEvents(c.UserContext(), query)
	if err != nil {
		return h.respond(c, err, "Failed to load previous events")
	}

	return c.JSON(view)
}

func (h *CatalogHandler) eventHistory(c *fiber.Ctx) error {
	buckets, err := h.catalogController.EventHistory(c.UserContext())
	if err != nil {
		return h.respond(c, err, "Failed to load event history")
	}

	return c.JSON(buckets)
}

func (h *CatalogHandler) pointsHistory(c *fiber.Ctx) error {
	view, err := h.catalogController.PointsHistory(c.UserContext(), middleware.GetParticipant(c))
	if err != nil {
		return h.respond(c, err, "Failed to load points history")
	}

	return c.JSON(view)
}

func (h *CatalogHandler) combinedHistory(c *fiber.Ctx) error {
	view, err := h.catalogController.CombinedHistory(c.UserContext(), middleware.GetParticipant(c))
	if err != nil {
		return h.respond(c, err, "Failed to load history")
	}

	return c.JSON(view)
}
