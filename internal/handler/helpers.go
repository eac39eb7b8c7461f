package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/middleware"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/service"
	"github.com/noah-isme/literacy-go-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(value), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func parseOptionalQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	id := uint(parsed)
	return &id, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok && id > 0 {
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// principalFromContext builds the caller identity from the locals set by JWTProtected.
func principalFromContext(c *fiber.Ctx) service.Principal {
	principal := service.Principal{UserID: userIDFromContext(c)}
	if role, ok := models.ParseRole(userRoleFromContext(c)); ok {
		principal.Role = role
	}
	return principal
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) zerolog.Logger {
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			return base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return base
}

// bindJSON parses and validates a JSON body, writing a 400 response on failure.
func bindJSON(c *fiber.Ctx, validate *validator.Validate, target interface{}) (bool, error) {
	if err := c.BodyParser(target); err != nil {
		return false, utils.FailWithCode(c, fiber.StatusBadRequest, string(service.CodeValidation), "invalid request body", nil)
	}
	if validate != nil {
		if err := validate.Struct(target); err != nil {
			return false, respondError(c, zerolog.Nop(), service.ValidationFailure(err))
		}
	}
	return true, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return utils.FailWithCode(c, fiber.StatusBadRequest, string(service.CodeValidation), message, nil)
}

// statusFor maps service error codes onto HTTP statuses.
func statusFor(code service.ErrorCode) int {
	switch code {
	case service.CodeValidation:
		return fiber.StatusBadRequest
	case service.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case service.CodeForbidden:
		return fiber.StatusForbidden
	case service.CodeNotFound:
		return fiber.StatusNotFound
	case service.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError serialises a service error. Internal failures never expose their cause.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	svcErr := service.AsError(err)
	status := statusFor(svcErr.Code)

	if status == fiber.StatusInternalServerError {
		log := requestLogger(logger, c)
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return utils.FailWithCode(c, status, string(service.CodeInternal), "internal server error", nil)
	}

	var details interface{}
	if len(svcErr.Fields) > 0 {
		details = svcErr.Fields
	}
	return utils.FailWithCode(c, status, string(svcErr.Code), svcErr.Message, details)
}
