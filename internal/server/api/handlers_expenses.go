package api

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/server/ledger"
	"github.com/dmitrijs2005/expensekeeper/internal/timex"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) ledgerOf(c *fiber.Ctx) (*ledger.Ledger, error) {
	return s.deps.Ledgers.For(c.UserContext(), currentUserID(c))
}

func expenseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid expense id %q", common.ErrorValidation, c.Params("id"))
	}
	return int64(id), nil
}

func (s *Server) createExpense(c *fiber.Ctx) error {
	var req createExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Amount == nil {
		return fmt.Errorf("%w: amount is required", common.ErrorValidation)
	}

	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	e, err := l.Create(c.UserContext(), ledger.NewExpense{
		Amount:      *req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(e))
}

func (s *Server) listExpenses(c *fiber.Ctx) error {
	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	list, err := l.List(c.UserContext(), c.QueryInt("skip", 0), c.QueryInt("limit", ledger.DefaultListLimit))
	if err != nil {
		return err
	}
	return c.JSON(toExpenseList(list))
}

func (s *Server) expensesBetween(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	list, err := l.Between(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(toExpenseList(list))
}

func (s *Server) expensesByCategory(c *fiber.Ctx) error {
	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	list, err := l.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(toExpenseList(list))
}

func (s *Server) getExpense(c *fiber.Ctx) error {
	id, err := expenseID(c)
	if err != nil {
		return err
	}
	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	e, err := l.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(toExpenseResponse(e))
}

func (s *Server) deleteExpense(c *fiber.Ctx) error {
	id, err := expenseID(c)
	if err != nil {
		return err
	}
	l, err := s.ledgerOf(c)
	if err != nil {
		return err
	}
	ok, err := l.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return c.JSON(fiber.Map{"message": "expense deleted"})
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = timex.ParseRangeBound(c.Query("start_date"), false); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	if to, err = timex.ParseRangeBound(c.Query("end_date"), true); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return from, to, nil
}
