package api

import (
	"github.com/dmitrijs2005/expensekeeper/internal/server/analytics"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) loadReport(c *fiber.Ctx) (*analytics.Report, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return nil, err
	}
	return s.deps.Reports.Report(c.UserContext(), currentUserID(c), from, to)
}

func (s *Server) summary(c *fiber.Ctx) error {
	r, err := s.loadReport(c)
	if err != nil {
		return err
	}
	return c.JSON(toSummary(r.Rows))
}

func (s *Server) total(c *fiber.Ctx) error {
	r, err := s.loadReport(c)
	if err != nil {
		return err
	}
	return c.JSON(totalResponse{TotalAmount: r.Total.InexactFloat64()})
}

func (s *Server) chart(c *fiber.Ctx) error {
	r, err := s.loadReport(c)
	if err != nil {
		return err
	}
	return c.JSON(chartResponse{Chart: analytics.Chart(r.Rows), Report: analytics.RenderReport(r.Rows)})
}

func (s *Server) csvReport(c *fiber.Ctx) (body, filename string, err error) {
	r, err := s.loadReport(c)
	if err != nil {
		return "", "", err
	}
	body, err = analytics.RenderCSV(r.Rows)
	if err != nil {
		return "", "", err
	}
	return body, analytics.ReportFilename(s.now()), nil
}

func (s *Server) report(c *fiber.Ctx) error {
	body, filename, err := s.csvReport(c)
	if err != nil {
		return err
	}
	return c.JSON(reportResponse{CSV: body, Filename: filename})
}

func (s *Server) archiveReport(c *fiber.Ctx) error {
	if s.deps.Archiver == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "report archive is not configured")
	}

	body, filename, err := s.csvReport(c)
	if err != nil {
		return err
	}

	key, url, err := s.deps.Archiver.Put(c.UserContext(), currentUserID(c), filename, []byte(body))
	if err != nil {
		return err
	}

	s.log.Info(c.UserContext(), "report archived", "user_id", currentUserID(c), "key", key)
	return c.Status(fiber.StatusCreated).JSON(archiveResponse{Key: key, URL: url, Filename: filename})
}
