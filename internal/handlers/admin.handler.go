package handlers

import (
	"fmt"

	"ecobayanihan/internal/app"
	eventController "ecobayanihan/internal/controllers/events"
	participantController "ecobayanihan/internal/controllers/participants"
	pointsController "ecobayanihan/internal/controllers/points"
	registrationController "ecobayanihan/internal/controllers/registrations"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const PARTICIPANT_NOT_FOUND_MESSAGE = "Participant not found."

// AdminHandler is the staff surface. Every route sits behind RequireStaff and
// the global admin idle timeout.
type AdminHandler struct {
	Handler
	eventController        eventController.EventControllerInterface
	participantController  participantController.ParticipantControllerInterface
	pointsController       pointsController.PointsControllerInterface
	registrationController registrationController.RegistrationControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		eventController:        app.Controllers.Event,
		participantController:  app.Controllers.Participant,
		pointsController:       app.Controllers.Points,
		registrationController: app.Controllers.Registration,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	requireStaff := h.middleware.RequireStaff()

	h.router.Get("/admin", requireStaff, h.panel)

	admin := h.router.Group("/custom-admin", requireStaff)
	admin.Get("", h.panel)

	events := admin.Group("/events")
	events.Post("", h.createEvent)
	events.Put("/:id", h.updateEvent)
	events.Delete("/:id", h.deleteEvent)
	events.Get("/:id/participants", h.eventParticipants)

	participants := admin.Group("/participants")
	participants.Post("", h.createParticipant)
	participants.Get("/:id", h.getParticipant)
	participants.Put("/:id", h.updateParticipant)
	participants.Delete("/:id", h.deleteParticipant)
	participants.Post("/:id/points", h.awardPoints)

	registrations := admin.Group("/registrations")
	registrations.Post("/:id/attendance", h.setAttendance)
	registrations.Post("/:id/approve", h.approve)
}

var (
	eventNotFound = errorStatus{
		err:     eventController.ErrEventNotFound,
		status:  fiber.StatusNotFound,
		message: EVENT_NOT_FOUND_MESSAGE,
	}
	participantNotFound = errorStatus{
		err:     participantController.ErrParticipantNotFound,
		status:  fiber.StatusNotFound,
		message: PARTICIPANT_NOT_FOUND_MESSAGE,
	}
	pointsParticipantNotFound = errorStatus{
		err:     pointsController.ErrParticipantNotFound,
		status:  fiber.StatusNotFound,
		message: PARTICIPANT_NOT_FOUND_MESSAGE,
	}
	pointsOutOfRange = errorStatus{
		err:     services.ErrPointsOutOfRange,
		status:  fiber.StatusConflict,
		message: "Approving would take the participant's balance outside the allowed range.",
	}
	pointsAlreadyAwarded = errorStatus{
		err:     services.ErrPointsAlreadyAwarded,
		status:  fiber.StatusConflict,
		message: "Points were already awarded for this registration.",
	}
)

func (h *AdminHandler) panel(c *fiber.Ctx) error {
	view, err := h.eventController.Panel(c.UserContext(), middleware.GetStaff(c))
	if err != nil {
		return h.respond(c, err, "Failed to load admin panel")
	}

	return c.JSON(view)
}

func (h *AdminHandler) createEvent(c *fiber.Ctx) error {
	var req types.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	event, err := h.eventController.CreateEvent(c.UserContext(), middleware.GetStaff(c), req)
	if err != nil {
		return h.respond(c, err, "Failed to create event")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event added successfully!",
		"event":   event,
	})
}

func (h *AdminHandler) updateEvent(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, EVENT_NOT_FOUND_MESSAGE)
	}

	var req types.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	event, err := h.eventController.UpdateEvent(c.UserContext(), id, req)
	if err != nil {
		return h.respond(c, err, "Failed to update event", eventNotFound)
	}

	return c.JSON(fiber.Map{
		"message": "Event updated successfully!",
		"event":   event,
	})
}

func (h *AdminHandler) deleteEvent(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, EVENT_NOT_FOUND_MESSAGE)
	}

	if err := h.eventController.DeleteEvent(c.UserContext(), id); err != nil {
		return h.respond(c, err, "Failed to delete event", eventNotFound)
	}

	return c.JSON(fiber.Map{"message": "Event deleted successfully!"})
}

func (h *AdminHandler) eventParticipants(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, EVENT_NOT_FOUND_MESSAGE)
	}

	view, err := h.eventController.GetEventParticipants(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err, "Failed to load event participants", eventNotFound)
	}

	return c.JSON(view)
}

func (h *AdminHandler) getParticipant(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, PARTICIPANT_NOT_FOUND_MESSAGE)
	}

	participant, err := h.participantController.GetParticipant(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err, "Failed to load participant", participantNotFound)
	}

	return c.JSON(fiber.Map{"participant": participant})
}

func (h *AdminHandler) createParticipant(c *fiber.Ctx) error {
	var req types.ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	participant, err := h.participantController.CreateParticipant(c.UserContext(), req)
	if err != nil {
		return h.respond(c, err, "Failed to create participant")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Participant added successfully!",
		"participant": participant,
	})
}

func (h *AdminHandler) updateParticipant(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, PARTICIPANT_NOT_FOUND_MESSAGE)
	}

	var req types.ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	participant, err := h.participantController.UpdateParticipant(c.UserContext(), id, req)
	if err != nil {
		return h.respond(c, err, "Failed to update participant", participantNotFound)
	}

	return c.JSON(fiber.Map{
		"message":     "Participant updated successfully!",
		"participant": participant,
	})
}

func (h *AdminHandler) deleteParticipant(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, PARTICIPANT_NOT_FOUND_MESSAGE)
	}

	if err := h.participantController.DeleteParticipant(c.UserContext(), id); err != nil {
		return h.respond(c, err, "Failed to delete participant", participantNotFound)
	}

	return c.JSON(fiber.Map{"message": "Participant deleted successfully!"})
}

// awardPoints treats an unparseable body as a points field error so a
// non integer value reads the same as a missing one.
func (h *AdminHandler) awardPoints(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, PARTICIPANT_NOT_FOUND_MESSAGE)
	}

	var req types.AwardPointsRequest
	if err := c.BodyParser(&req); err != nil {
		validation := types.NewValidationError(pointsController.POINTS_INVALID_MESSAGE)
		validation.Add("points", pointsController.POINTS_INVALID_MESSAGE)
		return h.respond(c, validation, "Failed to award points")
	}

	result, err := h.pointsController.AwardPoints(c.UserContext(), middleware.GetStaff(c), id, req)
	if err != nil {
		return h.respond(c, err, "Failed to award points", pointsParticipantNotFound)
	}

	return c.JSON(result)
}

func (h *AdminHandler) setAttendance(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, REGISTRATION_NOT_FOUND_MESSAGE)
	}

	var req types.AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	registration, err := h.registrationController.SetAttendance(c.UserContext(), id, req.Attended)
	if err != nil {
		return h.respond(c, err, "Failed to update attendance", registrationErrors...)
	}

	return c.JSON(fiber.Map{"registration": registration})
}

func (h *AdminHandler) approve(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, REGISTRATION_NOT_FOUND_MESSAGE)
	}

	registration, err := h.registrationController.Approve(c.UserContext(), middleware.GetStaff(c), id)
	if err != nil {
		return h.respond(
			c,
			err,
			"Failed to approve registration",
			append(registrationErrors, pointsAlreadyAwarded, pointsOutOfRange)...,
		)
	}

	return c.JSON(fiber.Map{
		"message":      fmt.Sprintf("Registration %s approved!", registration.ID),
		"registration": registration,
	})
}
