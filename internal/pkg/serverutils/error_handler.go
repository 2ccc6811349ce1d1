package serverutils

import (
	"errors"

	"whisperlink-be/internal/store"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandlerMiddleware maps store errors onto HTTP statuses: missing
// entities are 404, an aged-out link is 410 so clients can render "this link
// expired" instead of a generic not-found, and validation failures are 400.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.Is(err, store.ErrLinkNotFound), errors.Is(err, store.ErrConversationNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, store.ErrLinkExpired):
			status = fiber.StatusGone
			message = err.Error()
		case errors.Is(err, store.ErrEmptyMessage), errors.Is(err, store.ErrMessageTooLong):
			status = fiber.StatusBadRequest
			message = err.Error()
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(status).JSON(errorBody{Success: false, Message: message})
	}
}
