package api

import (
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	u, err := s.deps.Users.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	s.log.Info(c.UserContext(), "user registered", "user_id", u.ID)
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
}

// login accepts JSON or an OAuth2 password-style form body.
func (s *Server) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token, err := s.deps.Users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(c *fiber.Ctx) error {
	u, err := s.deps.Users.Me(c.UserContext(), currentUserID(c))
	if err != nil {
		// A valid token for a deleted account is still an auth failure.
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	return c.JSON(toUserResponse(u))
}
