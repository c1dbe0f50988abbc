// Package api serves the expense keeper HTTP API on top of fiber.
package api

import (
	"context"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/analytics"
	"github.com/dmitrijs2005/expensekeeper/internal/server/archive"
	"github.com/dmitrijs2005/expensekeeper/internal/server/ledger"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (int64, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type Ledgers interface {
	For(ctx context.Context, userID int64) (*ledger.Ledger, error)
}

type Reports interface {
	Report(ctx context.Context, userID int64, from, to *time.Time) (*analytics.Report, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators behind the handlers. Archiver and DB may be nil:
// archiving then answers 503 and /health skips the database check.
type Deps struct {
	Users    UserService
	Ledgers  Ledgers
	Reports  Reports
	Archiver archive.Archiver
	DB       Pinger
}

type Server struct {
	app  *fiber.App
	addr string
	deps Deps
	log  logging.Logger
	now  func() time.Time
}

// New builds the fiber app and registers every route. corsOrigin is passed
// to the CORS middleware as-is ("*" allows any origin).
func New(addr, corsOrigin string, deps Deps, log logging.Logger) *Server {
	s := &Server{
		addr: addr,
		deps: deps,
		log:  log.With("module", "api"),
		now:  time.Now,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(s.requestLogger())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	s.routes()
	return s
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	s.app.Get("/", s.welcome)
	s.app.Get("/health", s.health)

	v1 := s.app.Group("/api/v1")

	auth := v1.Group("/auth", rateLimitAuth())
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)

	v1.Get("/users/me", s.authRequired, s.me)

	exp := v1.Group("/expenses", s.authRequired)
	exp.Post("/", s.createExpense)
	exp.Get("/", s.listExpenses)
	exp.Get("/range", s.expensesBetween)
	exp.Get("/category/:category", s.expensesByCategory)
	exp.Get("/:id", s.getExpense)
	exp.Delete("/:id", s.deleteExpense)

	an := v1.Group("/analytics", s.authRequired)
	an.Get("/summary", s.summary)
	an.Get("/total", s.total)
	an.Get("/chart", s.chart)
	an.Get("/report", s.report)
	an.Post("/report/archive", s.archiveReport)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Expense Keeper API", "docs": "/api/v1"})
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.deps.DB != nil {
		if err := s.deps.DB.PingContext(c.UserContext()); err != nil {
			s.log.Error(c.UserContext(), "health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
