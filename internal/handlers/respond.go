package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/validation"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

// bind parses the JSON or form body into req and runs its validate tags.
// The returned error is either errInvalidBody or a *services.ValidationError.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errInvalidBody
	}
	if fields := validation.Struct(req); len(fields) > 0 {
		return &services.ValidationError{Fields: fields}
	}
	return nil
}

// badInput writes the 400 for a bind failure or a service-side
// ValidationError. It reports false when err is neither.
func badInput(c *fiber.Ctx, err error) (bool, error) {
	if errors.Is(err, errInvalidBody) {
		return true, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Msg: "Invalid request body"})
	}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return true, c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{Errors: verr.Fields})
	}
	return false, nil
}

// notFound answers with 400 and a {"msg"} body; missing resources are not
// reported as 404 by this API.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Msg: msg})
}

// serverError logs err with request context, reports it to sentry when the
// middleware is installed and answers with the generic 500 body.
func serverError(c *fiber.Ctx, err error) error {
	attrs := []any{
		"method", c.Method(),
		"route", c.Path(),
		"error", err.Error(),
	}
	if rid := c.Locals("requestid"); rid != nil {
		attrs = append(attrs, "request_id", fmt.Sprint(rid))
	}
	if user, ok := middleware.CurrentUser(c); ok {
		attrs = append(attrs, "user_id", user.ID)
	}
	slog.Error("request failed", attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Msg: "Server Error"})
}
