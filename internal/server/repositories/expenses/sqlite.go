package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
)

// SQLiteRepository keeps timestamps in UTC so the driver's text encoding
// sorts chronologically and range filters can compare it directly.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	createdAt := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount, category, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.String(), e.Category.String(), e.Description, e.Date.UTC(), createdAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	e.ID = id
	e.Date = e.Date.UTC()
	e.CreatedAt = createdAt
	return e, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id int64) (*models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE id = ? AND user_id = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SQLiteRepository) List(ctx context.Context, userID int64, skip, limit int) ([]models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return scanAll(r.db.QueryContext(ctx, query, userID, limit, skip))
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, userID int64, category models.Category) ([]models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE user_id = ? AND category = ? ORDER BY id`
	return scanAll(r.db.QueryContext(ctx, query, userID, category.String()))
}

func (r *SQLiteRepository) ListBetween(ctx context.Context, userID int64, from, to *time.Time) ([]models.Expense, error) {
	query, args := betweenQuery(userID, from, to, question)
	return scanAll(r.db.QueryContext(ctx, query, args...))
}
