// Package ledger exposes a user's expense records. A Ledger is bound to a
// single user id and cannot read or modify anyone else's rows.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000

	// maxAmountIntDigits matches NUMERIC(14, 2): at most 999999999999.99.
	maxAmountIntDigits = 12
	amountScale        = 2

	// maxCoefficientBits bounds the written-out digits (about 77) so the
	// checks below stay cheap.
	maxCoefficientBits = 256
)

// MaxAmount is the largest amount Create accepts.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// NewExpense carries already-parsed creation input. A nil Date means now.
type NewExpense struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        *time.Time
}

type Ledger struct {
	userID int64
	db     *sql.DB
	repos  repomanager.RepositoryManager
	now    func() time.Time
}

func (l *Ledger) UserID() int64 { return l.userID }

// withRepo runs fn on one pooled connection held for the whole call.
func (l *Ledger) withRepo(ctx context.Context, fn func(ctx context.Context, repo expenses.Repository) error) error {
	return dbx.WithConn(ctx, l.db, func(ctx context.Context, conn dbx.DBTX) error {
		return fn(ctx, l.repos.Expenses(conn))
	})
}

// checkAmount accepts positive amounts of at most two decimal places up to
// MaxAmount. The bounds are decided from the coefficient length and exponent
// first, so an input like 1e5000000 never gets rescaled.
func checkAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", common.ErrorValidation)
	}

	if d.Coefficient().BitLen() > maxCoefficientBits {
		return fmt.Errorf("%w: amount has too many digits", common.ErrorValidation)
	}

	// d = coef * 10^exp with coef < 10^n, so d < 10^(n+exp).
	magnitude := d.NumDigits() + int(d.Exponent())
	if magnitude > maxAmountIntDigits {
		return fmt.Errorf("%w: amount must not exceed %s", common.ErrorValidation, MaxAmount.StringFixed(amountScale))
	}
	if d.Exponent() < -amountScale {
		if magnitude <= -amountScale || !d.Truncate(amountScale).Equal(d) {
			return fmt.Errorf("%w: amount must have at most %d decimal places", common.ErrorValidation, amountScale)
		}
	}
	return nil
}

// Create validates in and stores it. The amount is stored as given.
func (l *Ledger) Create(ctx context.Context, in NewExpense) (*models.Expense, error) {
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	amount := in.Amount
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	date := l.now()
	if in.Date != nil {
		date = *in.Date
	}

	e := &models.Expense{
		UserID:      l.userID,
		Amount:      amount,
		Category:    category,
		Description: in.Description,
		Date:        date,
	}

	var created *models.Expense
	err = l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) error {
		created, err = repo.Create(ctx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns common.ErrorNotFound for ids the user does not own.
func (l *Ledger) Get(ctx context.Context, id int64) (*models.Expense, error) {
	var e *models.Expense
	err := l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) (err error) {
		e, err = repo.GetByID(ctx, l.userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List pages through the ledger in insertion order.
func (l *Ledger) List(ctx context.Context, skip, limit int) ([]models.Expense, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var list []models.Expense
	err := l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) (err error) {
		list, err = repo.List(ctx, l.userID, skip, limit)
		return err
	})
	return list, err
}

// Delete reports false when the id is unknown or owned by another user.
func (l *Ledger) Delete(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) (err error) {
		ok, err = repo.Delete(ctx, l.userID, id)
		return err
	})
	return ok, err
}

// ListByCategory is lenient: an unknown category name matches nothing.
func (l *Ledger) ListByCategory(ctx context.Context, category string) ([]models.Expense, error) {
	c, err := models.ParseCategory(category)
	if errors.Is(err, common.ErrorValidation) {
		return []models.Expense{}, nil
	}

	var list []models.Expense
	err = l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) (err error) {
		list, err = repo.ListByCategory(ctx, l.userID, c)
		return err
	})
	return list, err
}

// Between returns records dated within [from, to]. Nil bounds are open.
func (l *Ledger) Between(ctx context.Context, from, to *time.Time) ([]models.Expense, error) {
	var list []models.Expense
	err := l.withRepo(ctx, func(ctx context.Context, repo expenses.Repository) (err error) {
		list, err = repo.ListBetween(ctx, l.userID, from, to)
		return err
	})
	return list, err
}
