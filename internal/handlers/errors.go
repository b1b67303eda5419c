package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
	"github.com/solucionalbania/club-api/internal/services"
)

// ParseBody decodes the JSON body into out, rejecting unknown fields, and
// runs its validation rules. The returned error is a *fiber.Error ready to
// be passed to RespondError.
func ParseBody(c *fiber.Ctx, out validation.Validatable) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := out.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// RespondError writes err as an error payload. Domain errors map to their
// status; anything else goes to the app error handler as a 500.
func RespondError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: fe.Message})
	}

	status := fiber.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation:
		status = fiber.StatusBadRequest
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindAuthentication:
		status = fiber.StatusUnauthorized
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindDependency:
		slog.Error("dependency unavailable", "path", c.Path(), "error", err)
	default:
		return err
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}
