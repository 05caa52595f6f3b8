package api

import (
	"fmt"
	"strings"
	"time"
)

// Date handles the timestamp shapes the finance API emits: RFC 3339,
// zone-less ISO timestamps, and bare dates.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}

	return fmt.Errorf("unrecognized date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02T15:04:05") + `"`), nil
}

// Transaction is read-only from the client's perspective except for
// category reassignment.
type Transaction struct {
	ID          int       `json:"id"`
	Date        Date      `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"` // signed, negative = expense
	CategoryID  *int      `json:"category_id,omitempty"`
	Category    *Category `json:"category_obj,omitempty"`
}

type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Keywords string `json:"keywords,omitempty"`
}

type CategoryExpense struct {
	Category         string  `json:"category"`
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
}

type MonthlyExpense struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	TotalAmount float64 `json:"total_amount"`
}

// DashboardSummary is a server-computed snapshot; the client never
// mutates it, only reloads it.
type DashboardSummary struct {
	TotalExpenses      float64           `json:"total_expenses"`
	TotalTransactions  int               `json:"total_transactions"`
	ExpensesByCategory []CategoryExpense `json:"expenses_by_category"`
	MonthlyExpenses    []MonthlyExpense  `json:"monthly_expenses"`
}

type CopilotAnswer struct {
	Answer string         `json:"answer"`
	Data   map[string]any `json:"data,omitempty"`
}

type HealthInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ListParams filters GET /api/transactions. Zero values mean "server default".
type ListParams struct {
	Skip       int
	Limit      int
	CategoryID *int
}

// UpdateParams is the partial update accepted by PUT /api/transactions/{id}.
type UpdateParams struct {
	CategoryID int `json:"category_id"`
}
