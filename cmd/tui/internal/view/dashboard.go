package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

const barWidth = 30

// DashboardModel renders the server-computed summary snapshot. It holds no
// data of its own; everything shown is a projection of the summary the
// root hands it.
type DashboardModel struct {
	CommonModel
	summary *api.DashboardSummary
}

func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "" }

func (m DashboardModel) WithSummary(summary *api.DashboardSummary) DashboardModel {
	m.summary = summary
	return m
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m DashboardModel) View() string {
	if m.summary == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"No data available. Upload transactions to see your dashboard.",
		)
	}

	sections := []string{
		m.viewTotals(),
		m.viewCategories(),
		m.viewMonthly(),
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m DashboardModel) viewTotals() string {
	expenses := fmt.Sprintf("Total Expenses\n%s",
		Theme().Error.Bold(true).Render(FormatUSD(m.summary.TotalExpenses)))

	count := fmt.Sprintf("Total Transactions\n%s",
		Theme().Accent.Bold(true).Render(fmt.Sprintf("%d", m.summary.TotalTransactions)))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		Theme().Panel.Width(28).Render(expenses),
		Theme().Panel.Width(28).Render(count),
	)
}

func (m DashboardModel) viewCategories() string {
	header := Theme().Title.Render("Expenses by Category")

	spending := positiveCategories(m.summary.ExpensesByCategory)
	if len(spending) == 0 {
		return header + "\n" + Theme().Faint.Render("No category data available")
	}

	maxAmount := spending[0].TotalAmount
	for _, c := range spending {
		if c.TotalAmount > maxAmount {
			maxAmount = c.TotalAmount
		}
	}

	var b strings.Builder

	for _, c := range spending {
		detail := fmt.Sprintf("%d tx", c.TransactionCount)
		if c.TransactionCount > 0 {
			avg := c.TotalAmount / float64(c.TransactionCount)
			detail = fmt.Sprintf("%d tx, avg %s", c.TransactionCount, FormatUSD(avg))
		}

		fmt.Fprintf(&b, "%-18s %s %s  %s\n",
			c.Category,
			bar(c.TotalAmount, maxAmount),
			FormatUSD(c.TotalAmount),
			Theme().Faint.Render(detail),
		)
	}

	return header + "\n" + b.String()
}

func (m DashboardModel) viewMonthly() string {
	header := Theme().Title.Render("Monthly Expenses")

	monthly := m.summary.MonthlyExpenses
	if len(monthly) == 0 {
		return header + "\n" + Theme().Faint.Render("No monthly data available")
	}

	maxAmount := monthly[0].TotalAmount
	for _, e := range monthly {
		if e.TotalAmount > maxAmount {
			maxAmount = e.TotalAmount
		}
	}

	var b strings.Builder

	for _, e := range monthly {
		fmt.Fprintf(&b, "%-9s %s %s\n",
			FormatMonth(e.Year, e.Month),
			bar(e.TotalAmount, maxAmount),
			FormatUSD(e.TotalAmount),
		)
	}

	return header + "\n" + b.String()
}

// positiveCategories drops zero and negative aggregates so refunds never
// produce an empty or inverted bar.
func positiveCategories(all []api.CategoryExpense) []api.CategoryExpense {
	out := make([]api.CategoryExpense, 0, len(all))
	for _, c := range all {
		if c.TotalAmount > 0 {
			out = append(out, c)
		}
	}

	return out
}

func bar(amount, maxAmount float64) string {
	if maxAmount <= 0 {
		return ""
	}

	n := int(amount / maxAmount * barWidth)
	if n < 1 {
		n = 1
	}

	filled := strings.Repeat("█", n)
	rest := strings.Repeat(" ", barWidth-n)

	return lipgloss.NewStyle().Foreground(Theme().BarColor).Render(filled) + rest
}
