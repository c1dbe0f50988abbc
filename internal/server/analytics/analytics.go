// Package analytics aggregates a user's ledger into per-category totals and
// renders them as text, CSV and chart payloads.
package analytics

import (
	"context"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/server/ledger"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

// AggregateRow is the total and record count of one category.
type AggregateRow struct {
	Category    models.Category
	TotalAmount decimal.Decimal
	Count       int
}

// Report bundles the rows of a summary with their grand total.
type Report struct {
	Rows  []AggregateRow
	Total decimal.Decimal
}

// LedgerSource resolves the ledger of a user.
type LedgerSource interface {
	For(ctx context.Context, userID int64) (*ledger.Ledger, error)
}

type Engine struct {
	ledgers LedgerSource
}

func NewEngine(ledgers LedgerSource) *Engine {
	return &Engine{ledgers: ledgers}
}

// Summarize groups the user's expenses dated within [from, to] by category.
// Rows follow category enumeration order and empty categories are omitted.
func (e *Engine) Summarize(ctx context.Context, userID int64, from, to *time.Time) ([]AggregateRow, error) {
	r, err := e.Report(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return r.Rows, nil
}

// Total sums the same set Summarize groups. It is zero when nothing matches.
func (e *Engine) Total(ctx context.Context, userID int64, from, to *time.Time) (decimal.Decimal, error) {
	r, err := e.Report(ctx, userID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Total, nil
}

// Report computes rows and total from a single ledger read.
func (e *Engine) Report(ctx context.Context, userID int64, from, to *time.Time) (*Report, error) {
	l, err := e.ledgers.For(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := l.Between(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := Aggregate(list)
	return &Report{Rows: rows, Total: Sum(rows)}, nil
}

// Aggregate groups expenses by category.
func Aggregate(list []models.Expense) []AggregateRow {
	byCategory := make(map[models.Category]*AggregateRow)
	for _, x := range list {
		row, ok := byCategory[x.Category]
		if !ok {
			row = &AggregateRow{Category: x.Category, TotalAmount: decimal.Zero}
			byCategory[x.Category] = row
		}
		row.TotalAmount = row.TotalAmount.Add(x.Amount)
		row.Count++
	}

	rows := make([]AggregateRow, 0, len(byCategory))
	for _, c := range models.Categories() {
		if row, ok := byCategory[c]; ok {
			rows = append(rows, *row)
		}
	}
	return rows
}

func Sum(rows []AggregateRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalAmount)
	}
	return total
}
