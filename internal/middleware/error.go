package middleware

import (
	"errors"
	"net/http"

	"quizdesk/internal/domain"
	"quizdesk/internal/dto"
	"quizdesk/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized Fiber error handler. Every error
// becomes the uniform {success:false, error} envelope; domain errors
// pick their HTTP status from their code.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			log.Warn("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)
			return c.Status(statusCode).JSON(dto.Fail(domainErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.Fail(fiberErr.Message))
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.Fail("internal server error"))
	}
}

func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrParseFailed:
		return http.StatusBadRequest
	case domain.ErrMissingAPIKey:
		return http.StatusBadRequest
	case domain.ErrUpstreamAPI, domain.ErrResponseParse:
		return http.StatusServiceUnavailable
	case domain.ErrNotInitialized:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
