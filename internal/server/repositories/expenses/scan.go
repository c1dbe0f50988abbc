package expenses

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
)

const selectColumns = `id, user_id, amount, category, description, date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (*models.Expense, error) {
	var (
		e        models.Expense
		category string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Amount, &category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
		return nil, err
	}
	c, err := models.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("stored expense %d: %w", e.ID, err)
	}
	e.Category = c
	return &e, nil
}

func scanOne(row *sql.Row) (*models.Expense, error) {
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func scanAll(rows *sql.Rows, err error) ([]models.Expense, error) {
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// betweenQuery builds the range query. placeholder renders the n-th
// positional parameter for the target dialect.
func betweenQuery(userID int64, from, to *time.Time, placeholder func(n int) string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + selectColumns + ` FROM expenses WHERE user_id = ` + placeholder(1))
	args := []any{userID}

	if from != nil {
		args = append(args, from.UTC())
		sb.WriteString(` AND date >= ` + placeholder(len(args)))
	}
	if to != nil {
		args = append(args, to.UTC())
		sb.WriteString(` AND date <= ` + placeholder(len(args)))
	}
	sb.WriteString(` ORDER BY date, id`)
	return sb.String(), args
}

func dollar(n int) string { return "$" + strconv.Itoa(n) }

func question(int) string { return "?" }
