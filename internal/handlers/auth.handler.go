package handlers

import (
	"ecobayanihan/internal/app"
	authController "ecobayanihan/internal/controllers/auth"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	h.router.Post("/login", h.login)
	h.router.Post("/admin-login", h.adminLogin)
	h.router.Post("/register", h.register)
	h.router.Get("/logout", h.logout("/login"))
	h.router.Get("/admin-logout", h.logout("/admin-login"))
}

var lockedLogin = errorStatus{
	err:     services.ErrLoginLocked,
	status:  fiber.StatusTooManyRequests,
	message: authController.LOGIN_LOCKED_MESSAGE,
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	result, err := h.authController.Login(c.UserContext(), middleware.GetSession(c), req)
	if err != nil {
		return h.respond(c, err, "Login failed", lockedLogin, errorStatus{
			err:     authController.ErrInvalidCredentials,
			status:  fiber.StatusUnauthorized,
			message: authController.INVALID_CREDENTIALS_MESSAGE,
		})
	}

	return c.JSON(result)
}

func (h *AuthHandler) adminLogin(c *fiber.Ctx) error {
	var req types.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	result, err := h.authController.AdminLogin(c.UserContext(), middleware.GetSession(c), req)
	if err != nil {
		return h.respond(c, err, "Login failed", lockedLogin, errorStatus{
			err:     authController.ErrInvalidCredentials,
			status:  fiber.StatusUnauthorized,
			message: authController.INVALID_ADMIN_CREDENTIALS_MESSAGE,
		})
	}

	return c.JSON(result)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req types.ParticipantRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, err)
	}

	participant, err := h.authController.Register(c.UserContext(), req)
	if err != nil {
		return h.respond(c, err, authController.REGISTRATION_FAILED_MESSAGE)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     authController.REGISTRATION_SUCCESS_MESSAGE,
		"participant": participant,
		"redirect":    "/login",
	})
}

func (h *AuthHandler) logout(redirect string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.authController.Logout(c.UserContext(), middleware.GetSession(c)); err != nil {
			return h.respond(c, err, "Logout failed")
		}

		return c.JSON(fiber.Map{
			"message":  "You have been logged out.",
			"redirect": redirect,
		})
	}
}
