package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

// PassageHandler wires reading passage routes.
type PassageHandler struct {
	service   service.PassageService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPassageHandler constructs the handler.
func NewPassageHandler(service service.PassageService, validator *validator.Validate, logger zerolog.Logger) *PassageHandler {
	return &PassageHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "passage_handler").Logger(),
	}
}

// Register attaches passage endpoints to the router group.
func (h *PassageHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *PassageHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return badRequest(c, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return badRequest(c, "invalid page_size")
	}

	filter := dto.PassageFilter{
		Language: c.Query("language"),
		Tags:     c.Query("tags"),
		TestType: c.Query("test_type"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if c.Query("level") != "" {
		level, err := parseQueryInt(c, "level")
		if err != nil {
			return badRequest(c, "invalid level")
		}
		filter.Level = &level
	}

	passages, err := h.service.List(c.UserContext(), principalFromContext(c), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set("X-Cache", cacheHeader(passages.CacheHit))
	return utils.OK(c, passages.Items, "passages retrieved", passages.Pagination)
}

func (h *PassageHandler) create(c *fiber.Ctx) error {
	var payload dto.PassageCreateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	passage, err := h.service.Create(c.UserContext(), principalFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.Respond(c, fiber.StatusCreated, passage, "passage created", nil)
}

func (h *PassageHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	passage, err := h.service.Get(c.UserContext(), principalFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, passage, "passage retrieved", nil)
}

func (h *PassageHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var payload dto.PassageUpdateRequest
	if ok, err := bindJSON(c, h.validator, &payload); !ok {
		return err
	}

	passage, err := h.service.Update(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, passage, "passage updated", nil)
}

func (h *PassageHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), principalFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.OK(c, fiber.Map{"id": id}, "passage deleted", nil)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
