package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"theforum/internal/export"
	"theforum/internal/http/middleware"
	"theforum/internal/model"
	"theforum/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError sends the error envelope. message must be safe to show callers.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// writeServiceError maps service and export errors to their HTTP status and code.
// Only validation messages are echoed; everything else gets a fixed message.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		incomplete *model.IncompleteSubmissionError
		upload     *service.UploadError
		persist    *service.PersistError
		fetch      *service.FetchError
		exp        *export.ExportError
	)
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
	case errors.As(err, &incomplete):
		return writeError(c, fiber.StatusUnprocessableEntity, "INCOMPLETE_SUBMISSION", incomplete.Error())
	case errors.Is(err, export.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "format must be one of pdf, html, md")
	case errors.As(err, &upload):
		return writeError(c, fiber.StatusBadGateway, "UPLOAD_FAILED", "photo upload failed")
	case errors.As(err, &persist):
		return writeError(c, fiber.StatusInternalServerError, "PERSIST_FAILED", "could not save submission")
	case errors.As(err, &fetch):
		return writeError(c, fiber.StatusInternalServerError, "FETCH_FAILED", "could not load submissions")
	case errors.As(err, &exp):
		return writeError(c, fiber.StatusInternalServerError, "EXPORT_FAILED", "could not export newsletter")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

type statusText struct{ code, message string }

// frameworkErrors covers the statuses fiber raises on its own.
var frameworkErrors = map[int]statusText{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
}

// ErrorHandler renders errors that escape a handler in the standard envelope.
// Anything that is not a *fiber.Error with a known status becomes a 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if st, ok := frameworkErrors[fe.Code]; ok {
				return writeError(c, fe.Code, st.code, st.message)
			}
			return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
