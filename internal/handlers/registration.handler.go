package handlers

import (
	"ecobayanihan/internal/app"
	registrationController "ecobayanihan/internal/controllers/registrations"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const (
	EVENT_NOT_FOUND_MESSAGE        = "Event not found."
	EVENT_CLOSED_MESSAGE           = "This event is no longer accepting registrations."
	EVENT_FULL_MESSAGE             = "This event has reached its maximum number of participants."
	REGISTRATION_NOT_FOUND_MESSAGE = "Registration not found."
)

type RegistrationHandler struct {
	Handler
	registrationController registrationController.RegistrationControllerInterface
}

func NewRegistrationHandler(app app.App, router fiber.Router) *RegistrationHandler {
	log := logger.New("handlers").File("registration_handler")
	return &RegistrationHandler{
		registrationController: app.Controllers.Registration,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RegistrationHandler) Register() {
	participant := h.middleware.RequireParticipant()

	h.router.Post("/select-event", participant, h.selectEvent)
	h.router.Post("/registrations/:id/proof", participant, h.uploadProof)
}

var registrationErrors = []errorStatus{
	{err: registrationController.ErrEventNotFound, status: fiber.StatusNotFound, message: EVENT_NOT_FOUND_MESSAGE},
	{err: registrationController.ErrEventClosed, status: fiber.StatusConflict, message: EVENT_CLOSED_MESSAGE},
	{err: registrationController.ErrEventFull, status: fiber.StatusConflict, message: EVENT_FULL_MESSAGE},
	{
		err:     registrationController.ErrRegistrationNotFound,
		status:  fiber.StatusNotFound,
		message: REGISTRATION_NOT_FOUND_MESSAGE,
	},
}

func (h *RegistrationHandler) selectEvent(c *fiber.Ctx) error {
	var req types.SelectEventRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	outcome, err := h.registrationController.SelectEvent(
		c.UserContext(),
		middleware.GetSession(c),
		middleware.GetParticipant(c),
		req,
	)
	if err != nil {
		return h.respond(c, err, "Failed to register for event", registrationErrors...)
	}

	return c.JSON(outcome)
}

func (h *RegistrationHandler) uploadProof(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, REGISTRATION_NOT_FOUND_MESSAGE)
	}

	// A missing or unreadable file is reported as a field error below.
	file, err := c.FormFile("proof")
	if err != nil {
		h.log.TraceFromContext(c.UserContext()).Debug("no proof file in request", "error", err)
		file = nil
	}

	registration, err := h.registrationController.UploadProof(
		c.UserContext(),
		middleware.GetParticipant(c),
		id,
		file,
		c.FormValue("notes"),
	)
	if err != nil {
		return h.respond(c, err, "Failed to upload proof", registrationErrors...)
	}

	return c.JSON(fiber.Map{
		"message":      "Proof uploaded successfully!",
		"registration": registration,
	})
}
