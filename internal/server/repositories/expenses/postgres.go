package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	query :=
		`INSERT INTO expenses (user_id, amount, category, description, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, e.UserID, e.Amount, e.Category.String(), e.Description, e.Date).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`
	return scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, skip, limit int) ([]models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3`
	return scanAll(r.db.QueryContext(ctx, query, userID, skip, limit))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, userID int64, category models.Category) ([]models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses WHERE user_id = $1 AND category = $2 ORDER BY id`
	return scanAll(r.db.QueryContext(ctx, query, userID, category.String()))
}

func (r *PostgresRepository) ListBetween(ctx context.Context, userID int64, from, to *time.Time) ([]models.Expense, error) {
	query, args := betweenQuery(userID, from, to, dollar)
	return scanAll(r.db.QueryContext(ctx, query, args...))
}
