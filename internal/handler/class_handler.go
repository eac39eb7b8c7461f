package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

// ClassHandler wires class HTTP routes.
type ClassHandler struct {
	service   service.ClassService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassHandler constructs the handler.
func NewClassHandler(service service.ClassService, validator *validator.Validate, logger zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "class_handler").Logger(),
	}
}

// Register attaches class endpoints to the router group.
func (h *ClassHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ClassHandler) list(c *fiber.Ctx) error {
	filter := dto.ClassFilter{IncludeArchived: c.QueryBool("include_archived", false)}

	classes, err := h.service.List(c.UserContext(), principalFromContext(c), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, classes, "classes retrieved", nil)
}

func (h *ClassHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	class, err := h.service.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, class, "class created", nil)
}

func (h *ClassHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	class, err := h.service.Get(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, class, "class retrieved", nil)
}

func (h *ClassHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.ClassUpdateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	class, err := h.service.Update(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, class, "class updated", nil)
}

func (h *ClassHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), principalFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, fiber.Map{"id": id}, "class deleted", nil)
}
