package client

import "context"

// Client is the API surface the CLI depends on.
type Client interface {
	Ping(ctx context.Context) error

	Register(ctx context.Context, username string, password []byte) (*User, error)
	Login(ctx context.Context, username string, password []byte) error
	Logout()
	LoggedIn() bool
	Me(ctx context.Context) (*User, error)

	AddExpense(ctx context.Context, e NewExpense) (*Expense, error)
	ListExpenses(ctx context.Context, skip, limit int) ([]Expense, error)
	ExpensesBetween(ctx context.Context, r Range) ([]Expense, error)
	ExpensesByCategory(ctx context.Context, category string) ([]Expense, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	Summary(ctx context.Context, r Range) ([]SummaryRow, error)
	Total(ctx context.Context, r Range) (float64, error)
	Chart(ctx context.Context, r Range) (*ChartReport, error)
	Report(ctx context.Context, r Range) (*CSVReport, error)
	ArchiveReport(ctx context.Context, r Range) (*Archive, error)
}
