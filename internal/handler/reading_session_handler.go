package handler

import (
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

// ReadingSessionHandler wires the fluency-reading routes.
type ReadingSessionHandler struct {
	service   service.ReadingSessionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewReadingSessionHandler constructs the handler.
func NewReadingSessionHandler(service service.ReadingSessionService, validator *validator.Validate, logger zerolog.Logger) *ReadingSessionHandler {
	return &ReadingSessionHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "reading_session_handler").Logger(),
	}
}

// Register attaches fluency-reading endpoints to the router group.
func (h *ReadingSessionHandler) Register(router fiber.Router) {
	router.Post("/sessions", h.create)
	router.Get("/students/:studentId/sessions", h.listByStudent)
	router.Get("/session/:id", h.get)
}

// create accepts multipart form data with an optional "audio" file, or a plain JSON body.
func (h *ReadingSessionHandler) create(c *fiber.Ctx) error {
	var payload dto.ReadingSessionCreateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	var audio *multipart.FileHeader
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		if file, err := c.FormFile("audio"); err == nil {
			audio = file
		}
	}

	session, err := h.service.Create(c.UserContext(), principalFromContext(c), payload, audio)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, session, "reading session recorded", nil)
}

func (h *ReadingSessionHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sessions, err := h.service.ListByStudent(c.UserContext(), principalFromContext(c), studentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, sessions, "reading sessions retrieved", nil)
}

func (h *ReadingSessionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	session, err := h.service.GetAggregate(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, session, "reading session retrieved", nil)
}
