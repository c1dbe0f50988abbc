package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one record of a user's ledger.
type Expense struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Category    Category
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
