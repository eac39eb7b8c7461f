package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

// AssessmentHandler wires assessment routes.
type AssessmentHandler struct {
	service   service.AssessmentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssessmentHandler constructs the handler.
func NewAssessmentHandler(service service.AssessmentService, validator *validator.Validate, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register attaches assessment endpoints to the router group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	studentID, err := parseOptionalQueryUint(c, "student_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if studentID == nil {
		return badRequest(c, "student_id is required")
	}

	assessments, err := h.service.ListByStudent(c.UserContext(), principalFromContext(c), *studentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, assessments, "assessments retrieved", nil)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssessmentCreateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	assessment, err := h.service.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, assessment, "assessment created", nil)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	assessment, err := h.service.Get(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, assessment, "assessment retrieved", nil)
}

func (h *AssessmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), principalFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, fiber.Map{"id": id}, "assessment deleted", nil)
}
