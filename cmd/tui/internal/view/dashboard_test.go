package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pfcopilot/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

func TestDashboard_NoSummary(t *testing.T) {
	m := view.NewDashboardModel()

	assert.Contains(t, m.View(), "No data available. Upload transactions to see your dashboard.")
}

func TestDashboard_EmptyCategorySeries(t *testing.T) {
	m := view.NewDashboardModel().WithSummary(&api.DashboardSummary{
		TotalExpenses:      0,
		TotalTransactions:  3,
		ExpensesByCategory: []api.CategoryExpense{},
		MonthlyExpenses:    []api.MonthlyExpense{},
	})

	out := m.View()
	assert.Contains(t, out, "No category data available")
	assert.Contains(t, out, "No monthly data available")
}

func TestDashboard_ZeroAmountCategoriesFiltered(t *testing.T) {
	m := view.NewDashboardModel().WithSummary(&api.DashboardSummary{
		TotalExpenses:     10,
		TotalTransactions: 1,
		ExpensesByCategory: []api.CategoryExpense{
			{Category: "Refunds", TotalAmount: 0, TransactionCount: 1},
		},
	})

	out := m.View()
	assert.NotContains(t, out, "Refunds")
	assert.Contains(t, out, "No category data available")
}

func TestDashboard_ZeroCountCategoryHasNoAverage(t *testing.T) {
	m := view.NewDashboardModel().WithSummary(&api.DashboardSummary{
		TotalExpenses:     50,
		TotalTransactions: 0,
		ExpensesByCategory: []api.CategoryExpense{
			{Category: "Groceries", TotalAmount: 50, TransactionCount: 0},
		},
	})

	out := m.View()
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "0 tx")
	assert.NotContains(t, out, "Inf")
}

func TestDashboard_RendersSeries(t *testing.T) {
	m := view.NewDashboardModel().WithSummary(&api.DashboardSummary{
		TotalExpenses:     321.50,
		TotalTransactions: 12,
		ExpensesByCategory: []api.CategoryExpense{
			{Category: "Groceries", TotalAmount: 100.50, TransactionCount: 4},
			{Category: "Transport", TotalAmount: 21, TransactionCount: 2},
		},
		MonthlyExpenses: []api.MonthlyExpense{
			{Year: 2025, Month: 5, TotalAmount: 321.50},
		},
	})

	out := m.View()
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "$100.50")
	assert.Contains(t, out, "May 2025")
	assert.Contains(t, out, "$321.50")
	assert.Contains(t, out, "12")
}
