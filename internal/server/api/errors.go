package api

import (
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps core errors onto HTTP statuses and client-safe messages.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorUnauthorized), common.IsTokenError(err):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorUserExists):
		return fiber.StatusConflict, common.ErrorUserExists.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "request_id", requestID(c), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
