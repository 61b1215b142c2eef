package serverutils

import (
	"errors"

	"github.com/AashishKarn828/rag-mlops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorHandlerMiddleware turns errors returned by later handlers into
// {status:"error", message} responses with a matching HTTP status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		return ctx.Status(StatusFor(err)).JSON(ErrorResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *service.ValidationError
	var upstreamErr *service.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &upstreamErr):
		return fiber.StatusInternalServerError
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}
