package handler

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

// AuthHandler wires account, login and profile routes.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	loginURL  string
	logger    zerolog.Logger
}

// NewAuthHandler constructs the handler. loginURL is where verification links land.
func NewAuthHandler(service service.AuthService, validator *validator.Validate, loginURL string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		loginURL:  loginURL,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated auth endpoints.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/admin/signup", h.signupAdmin)
	router.Post("/register", h.register)
	router.Get("/verify", h.verify)
	router.Post("/login", h.login)
}

// RegisterProfile attaches the caller's profile endpoints.
func (h *AuthHandler) RegisterProfile(router fiber.Router) {
	router.Get("", h.me)
	router.Patch("", h.updateProfile)
}

// RegisterAdmin attaches user management endpoints.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listUsers)
	router.Delete("/:id", h.deleteUser)
}

func (h *AuthHandler) signupAdmin(c *fiber.Ctx) error {
	var payload dto.AdminSignupRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	user, err := h.service.SignupAdmin(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, user, "admin account created", nil)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	user, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, user, "account created; check your email to verify it", nil)
}

// verify always redirects to the login page, carrying the outcome in the query string.
func (h *AuthHandler) verify(c *fiber.Ctx) error {
	var payload dto.VerifyEmailRequest
	if err := c.QueryParser(&payload); err != nil {
		return c.Redirect(h.redirectURL("error", "invalid_link"), fiber.StatusFound)
	}

	if err := h.service.VerifyEmail(c.UserContext(), payload); err != nil {
		reason := "invalid_link"
		switch service.CodeOf(err) {
		case service.CodeNotFound:
			reason = "unknown_user"
		case service.CodeInternal:
			log := requestLogger(h.logger, c)
			log.Error().Err(err).Msg("email verification failed")
			reason = "server_error"
		}
		return c.Redirect(h.redirectURL("error", reason), fiber.StatusFound)
	}

	return c.Redirect(h.redirectURL("verified", "true"), fiber.StatusFound)
}

func (h *AuthHandler) redirectURL(key, value string) string {
	separator := "?"
	if strings.Contains(h.loginURL, "?") {
		separator = "&"
	}
	return h.loginURL + separator + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, response, "logged in", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), principalFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, user, "profile retrieved", nil)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	user, err := h.service.UpdateProfile(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, user, "profile updated", nil)
}

func (h *AuthHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), principalFromContext(c), c.Query("role"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, users, "users retrieved", nil)
}

func (h *AuthHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.DeleteUser(c.UserContext(), principalFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, fiber.Map{"id": id}, "user deleted", nil)
}
