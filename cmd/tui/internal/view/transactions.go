package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

// maxRows caps how many of the supplied transactions are rendered.
const maxRows = 50

type txState int

const (
	txStateBrowse txState = iota
	txStateEdit
)

type TransactionsModel struct {
	CommonModel
	client Client

	state txState
	table table.Model
	txs   []api.Transaction

	categories []api.Category
	catsLoaded bool

	form   *huh.Form
	status string

	// Form binding
	formCategoryID int
}

func NewTransactionsModel(client Client) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 40},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		client: client,
		table:  t,
	}
}

func (m TransactionsModel) Title() string { return "Recent Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateEdit {
		return "Enter: save category | Esc: cancel"
	}

	return "e/Enter: change category | Up/Down: navigate"
}

// Editing reports whether a form is capturing keystrokes, so the root
// model can keep tab-switching keys out of it.
func (m TransactionsModel) Editing() bool {
	return m.state == txStateEdit
}

// RowCount reports how many rows the table holds after the cap.
func (m TransactionsModel) RowCount() int {
	return len(m.txs)
}

// WithTransactions replaces the rendered data. The view is a pure
// projection of what the root hands it.
func (m TransactionsModel) WithTransactions(txs []api.Transaction) TransactionsModel {
	if len(txs) > maxRows {
		txs = txs[:maxRows]
	}

	m.txs = txs
	m.refreshTable()

	return m
}

func (m TransactionsModel) Init() tea.Cmd {
	if m.catsLoaded {
		return nil
	}

	// Reference data, fetched once per session.
	return m.loadCategoriesCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		if msg.err != nil {
			// Silent beyond the log: editing just stays unavailable.
			return m, nil
		}

		m.categories = msg.categories
		m.catsLoaded = true

		return m, nil

	case txSavedMsg:
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = "Could not update category"
			return m, nil
		}

		m.status = ""

		return m, func() tea.Msg { return TransactionSavedMsg{} }

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "e", "enter":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	if len(m.categories) == 0 {
		m.status = "Categories unavailable"
		return m, nil
	}

	tx := m.txs[idx]

	m.formCategoryID = 0
	if tx.CategoryID != nil {
		m.formCategoryID = *tx.CategoryID
	}

	options := make([]huh.Option[int], 0, len(m.categories))
	for _, c := range m.categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("category").
				Title(fmt.Sprintf("Category for %q", tx.Description)).
				Options(options...).
				Value(&m.formCategoryID),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The Value binding points into the model copy that built the form,
	// so the committed selection is read back from the form by key.
	categoryID, ok := m.form.Get("category").(int)
	if !ok {
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.saveCmd(categoryID)
}

func (m TransactionsModel) View() string {
	if len(m.txs) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			"No transactions found. Upload a CSV file to get started.",
		)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == txStateEdit && m.form != nil {
		panel := Theme().Panel.Width(48).Render(m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = Theme().Error.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date.Time),
			tx.Description,
			FormatSigned(tx.Amount),
			categoryName(tx),
		})
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func categoryName(tx api.Transaction) string {
	if tx.Category != nil {
		return tx.Category.Name
	}

	return "Other"
}

// Messages

type categoriesMsg struct {
	categories []api.Category
	err        error
}

func (m TransactionsModel) loadCategoriesCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		categories, err := client.ListCategories(ctx)

		return categoriesMsg{categories: categories, err: err}
	}
}

type txSavedMsg struct {
	tx  *api.Transaction
	err error
}

func (m TransactionsModel) saveCmd(categoryID int) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	client := m.client
	id := m.txs[idx].ID

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		tx, err := client.UpdateTransaction(ctx, id, api.UpdateParams{CategoryID: categoryID})

		return txSavedMsg{tx: tx, err: err}
	}
}
