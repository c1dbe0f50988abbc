// Package expenses stores ledger records. Every query is scoped by user id.
package expenses

import (
	"context"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
)

type Repository interface {
	// Create inserts e and fills in ID and CreatedAt.
	Create(ctx context.Context, e *models.Expense) (*models.Expense, error)
	// GetByID returns common.ErrorNotFound when id does not exist or
	// belongs to another user.
	GetByID(ctx context.Context, userID, id int64) (*models.Expense, error)
	// List returns records in insertion order.
	List(ctx context.Context, userID int64, skip, limit int) ([]models.Expense, error)
	// Delete reports whether a row owned by userID was removed.
	Delete(ctx context.Context, userID, id int64) (bool, error)
	ListByCategory(ctx context.Context, userID int64, category models.Category) ([]models.Expense, error)
	// ListBetween filters by date inclusively; a nil bound is open.
	ListBetween(ctx context.Context, userID int64, from, to *time.Time) ([]models.Expense, error)
}
