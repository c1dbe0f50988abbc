package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewExpense is the create payload. A nil Date lets the server stamp the
// current time.
type NewExpense struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

type SummaryRow struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

type Chart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors"`
}

type ChartReport struct {
	Chart  Chart  `json:"chart"`
	Report string `json:"report"`
}

type CSVReport struct {
	CSV      string `json:"csv"`
	Filename string `json:"filename"`
}

type Archive struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Range bounds analytics and range queries. Empty fields are left unbounded;
// values are passed to the server as typed ("2024-01-31" or RFC 3339).
type Range struct {
	From string
	To   string
}
