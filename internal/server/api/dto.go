package api

import (
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/server/analytics"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// createExpenseRequest accepts amount as a JSON number or a numeric string.
type createExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        *time.Time       `json:"date"`
}

type expenseResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount.InexactFloat64(),
		Category:    e.Category.String(),
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenseList(list []models.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(list))
	for i := range list {
		out = append(out, toExpenseResponse(&list[i]))
	}
	return out
}

type summaryRow struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"total_amount"`
	Count       int     `json:"count"`
}

func toSummary(rows []analytics.AggregateRow) []summaryRow {
	out := make([]summaryRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, summaryRow{
			Category:    r.Category.String(),
			TotalAmount: r.TotalAmount.InexactFloat64(),
			Count:       r.Count,
		})
	}
	return out
}

type totalResponse struct {
	TotalAmount float64 `json:"total_amount"`
}

type chartResponse struct {
	Chart  analytics.ChartPayload `json:"chart"`
	Report string                 `json:"report"`
}

type reportResponse struct {
	CSV      string `json:"csv"`
	Filename string `json:"filename"`
}

type archiveResponse struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
