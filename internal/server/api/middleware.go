package api

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-ID"
	requestIDLocalKey = "request_id"
)

// requestLogger tags the request with an id and logs the outcome. Chain
// errors are rendered here so the logged status is the one sent.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDLocalKey, id)
		c.Set(requestIDHeader, id)

		if err := c.Next(); err != nil {
			if herr := s.errorHandler(c, err); herr != nil {
				return herr
			}
		}

		s.log.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
			"request_id", id,
		)
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocalKey).(string)
	return id
}

// authRequired resolves the bearer token into a user id stored in Locals.
// Every failure is the same 401.
func (s *Server) authRequired(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(common.AuthorizationHeaderName)), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return common.ErrorUnauthorized
	}

	uid, err := s.deps.Users.Authenticate(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		s.log.Debug(c.UserContext(), "token rejected", "request_id", requestID(c), "reason", err)
		return common.ErrorUnauthorized
	}

	c.Locals(common.UserIDLocalKey, uid)
	return c.Next()
}

func currentUserID(c *fiber.Ctx) int64 {
	uid, _ := c.Locals(common.UserIDLocalKey).(int64)
	return uid
}

// rateLimitAuth limits auth endpoints to 10 requests per minute per IP.
func rateLimitAuth() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	})
}
