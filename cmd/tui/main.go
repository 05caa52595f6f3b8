package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pfcopilot/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
	"github.com/MrJamesThe3rd/pfcopilot/internal/config"
	"github.com/MrJamesThe3rd/pfcopilot/internal/logging"
	"github.com/MrJamesThe3rd/pfcopilot/internal/session"
)

type tab int

const (
	tabUpload tab = iota
	tabDashboard
	tabTransactions
	tabCopilot
	tabProfile
)

var tabLabels = [...]string{
	tabUpload:       "Upload",
	tabDashboard:    "Dashboard",
	tabTransactions: "Transactions",
	tabCopilot:      "Copilot",
	tabProfile:      "Profile",
}

type model struct {
	client view.Client
	store  *session.Store
	logger *zap.Logger

	activeTab tab
	loading   bool
	status    string
	apiDown   bool

	width  int
	height int

	spinner spinner.Model

	txs     []api.Transaction
	summary *api.DashboardSummary

	authView         view.AuthModel
	uploadView       view.UploadModel
	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	copilotView      view.CopilotModel
	profileView      view.ProfileModel
}

func newModel(client view.Client, store *session.Store, logger *zap.Logger) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		client:           client,
		store:            store,
		logger:           logger,
		activeTab:        tabUpload,
		spinner:          sp,
		authView:         view.NewAuthModel(store),
		uploadView:       view.NewUploadModel(client),
		dashboardView:    view.NewDashboardModel(),
		transactionsView: view.NewTransactionsModel(client),
		copilotView:      view.NewCopilotModel(client),
		profileView:      view.NewProfileModel(),
	}
}

// Messages owned by the root model.

type restoredMsg struct {
	sess *session.Session
}

type healthMsg struct {
	err error
}

// dataLoadedMsg carries the combined transactions + summary fetch. The two
// calls settle independently so one failure never blanks the other's data.
type dataLoadedMsg struct {
	txs     []api.Transaction
	summary *api.DashboardSummary
	txErr   error
	sumErr  error
}

func (m model) restoreCmd() tea.Cmd {
	store := m.store

	return func() tea.Msg {
		return restoredMsg{sess: store.Restore()}
	}
}

func (m model) healthCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		_, err := client.Health(ctx)

		return healthMsg{err: err}
	}
}

func (m model) loadDataCmd() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		var result dataLoadedMsg

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			result.txs, result.txErr = client.ListTransactions(ctx, api.ListParams{Limit: 50})
			return nil
		})
		g.Go(func() error {
			result.summary, result.sumErr = client.DashboardSummary(ctx)
			return nil
		})
		_ = g.Wait()

		return result
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.restoreCmd(), m.healthCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m.broadcast(msg)

	case spinner.TickMsg:
		if !m.loading && m.store.Phase() != session.PhaseInitializing {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case restoredMsg:
		if msg.sess == nil {
			return m, m.authView.Init()
		}

		return m.enterAuthenticated(msg.sess)

	case healthMsg:
		m.apiDown = msg.err != nil
		if msg.err != nil {
			m.logger.Warn("api unreachable", zap.Error(msg.err))
		} else {
			m.logger.Info("api reachable")
		}

		return m, nil

	case dataLoadedMsg:
		return m.applyData(msg)

	case view.AuthenticatedMsg:
		return m.enterAuthenticated(m.store.Current())

	case view.UploadedMsg:
		m.status = msg.Message
		m.activeTab = tabDashboard
		m.loading = true

		return m, tea.Batch(m.spinner.Tick, m.loadDataCmd())

	case view.TransactionSavedMsg:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadDataCmd())

	case view.LogoutMsg:
		return m.enterUnauthenticated()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.store.Phase() != session.PhaseAuthenticated {
			return m.forwardKey(msg)
		}

		if !m.capturesText() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1", "2", "3", "4", "5":
				return m.switchTab(tab(int(msg.String()[0] - '1')))
			case "tab":
				return m.switchTab((m.activeTab + 1) % tab(len(tabLabels)))
			case "shift+tab":
				return m.switchTab((m.activeTab + tab(len(tabLabels)) - 1) % tab(len(tabLabels)))
			}
		}

		return m.forwardKey(msg)
	}

	// Async results land on whichever view owns them, active or not.
	return m.broadcast(msg)
}

func (m model) enterAuthenticated(sess *session.Session) (tea.Model, tea.Cmd) {
	m.profileView = m.profileView.WithSession(sess)
	m.activeTab = tabUpload
	m.loading = true
	m.status = ""

	return m, tea.Batch(m.spinner.Tick, m.loadDataCmd(), m.transactionsView.Init())
}

func (m model) enterUnauthenticated() (tea.Model, tea.Cmd) {
	m.store.Logout()

	m.txs = nil
	m.summary = nil
	m.status = ""
	m.loading = false
	m.activeTab = tabUpload
	m.dashboardView = m.dashboardView.WithSummary(nil)
	m.transactionsView = m.transactionsView.WithTransactions(nil)
	m.profileView = m.profileView.WithSession(nil)
	m.authView = view.NewAuthModel(m.store)

	return m, m.authView.Init()
}

func (m model) applyData(msg dataLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	// A rejected credential means the session is gone server-side.
	if isUnauthorized(msg.txErr) || isUnauthorized(msg.sumErr) {
		m.logger.Warn("session rejected, forcing logout")
		return m.enterUnauthenticated()
	}

	if msg.txErr == nil {
		m.txs = msg.txs
		m.transactionsView = m.transactionsView.WithTransactions(msg.txs)
	} else {
		m.logger.Error("load transactions", zap.Error(msg.txErr))
	}

	if msg.sumErr == nil {
		m.summary = msg.summary
		m.dashboardView = m.dashboardView.WithSummary(msg.summary)
	} else {
		m.logger.Error("load summary", zap.Error(msg.sumErr))
	}

	if msg.txErr != nil || msg.sumErr != nil {
		m.status = "Some data could not be loaded"
	}

	return m, nil
}

func isUnauthorized(err error) bool {
	statusErr, ok := api.AsStatusError(err)
	return ok && statusErr.StatusCode == 401
}

// capturesText reports whether the focused view owns the keyboard, in
// which case tab-switching and quit keys stay out of its way.
func (m model) capturesText() bool {
	switch m.activeTab {
	case tabCopilot:
		return true
	case tabTransactions:
		return m.transactionsView.Editing()
	}

	return false
}

func (m model) switchTab(t tab) (tea.Model, tea.Cmd) {
	if t == m.activeTab {
		return m, nil
	}

	m.activeTab = t
	m.status = ""

	return m, m.activeView().Init()
}

func (m model) activeView() view.View {
	switch m.activeTab {
	case tabUpload:
		return m.uploadView
	case tabDashboard:
		return m.dashboardView
	case tabTransactions:
		return m.transactionsView
	case tabCopilot:
		return m.copilotView
	case tabProfile:
		return m.profileView
	}

	return m.dashboardView
}

func (m model) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.store.Phase() != session.PhaseAuthenticated {
		var newModel tea.Model
		newModel, cmd = m.authView.Update(msg)
		m.authView = newModel.(view.AuthModel)

		return m, cmd
	}

	switch m.activeTab {
	case tabUpload:
		var newModel tea.Model
		newModel, cmd = m.uploadView.Update(msg)
		m.uploadView = newModel.(view.UploadModel)
	case tabDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case tabTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case tabCopilot:
		var newModel tea.Model
		newModel, cmd = m.copilotView.Update(msg)
		m.copilotView = newModel.(view.CopilotModel)
	case tabProfile:
		var newModel tea.Model
		newModel, cmd = m.profileView.Update(msg)
		m.profileView = newModel.(view.ProfileModel)
	}

	return m, cmd
}

func (m model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	appendCmd := func(newModel tea.Model, cmd tea.Cmd) tea.Model {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

		return newModel
	}

	var newModel tea.Model
	var cmd tea.Cmd

	newModel, cmd = m.authView.Update(msg)
	m.authView = appendCmd(newModel, cmd).(view.AuthModel)

	newModel, cmd = m.uploadView.Update(msg)
	m.uploadView = appendCmd(newModel, cmd).(view.UploadModel)

	newModel, cmd = m.dashboardView.Update(msg)
	m.dashboardView = appendCmd(newModel, cmd).(view.DashboardModel)

	newModel, cmd = m.transactionsView.Update(msg)
	m.transactionsView = appendCmd(newModel, cmd).(view.TransactionsModel)

	newModel, cmd = m.copilotView.Update(msg)
	m.copilotView = appendCmd(newModel, cmd).(view.CopilotModel)

	newModel, cmd = m.profileView.Update(msg)
	m.profileView = appendCmd(newModel, cmd).(view.ProfileModel)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	switch m.store.Phase() {
	case session.PhaseInitializing:
		return lipgloss.NewStyle().Padding(2).Render(
			m.spinner.View() + " Restoring session...",
		)
	case session.PhaseUnauthenticated:
		return m.viewHeader() + "\n" + m.authView.View()
	}

	var body string
	if m.loading {
		body = lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Loading...")
	} else {
		body = m.activeView().View()
	}

	return strings.Join([]string{
		m.viewHeader(),
		m.viewTabs(),
		body,
		m.viewFooter(),
	}, "\n")
}

func (m model) viewHeader() string {
	th := view.Theme()

	left := th.Title.Render("Personal Finance Copilot")

	var right string
	if sess := m.store.Current(); sess != nil {
		right = th.Subtitle.Render("Welcome, " + sess.Username + "!")
		if m.summary != nil {
			right += "  " + th.Accent.Render(
				"Total expenses: "+view.FormatUSD(m.summary.TotalExpenses),
			)
		}
	} else {
		right = th.Subtitle.Render("Your AI-powered expense tracker")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

func (m model) viewTabs() string {
	th := view.Theme()

	rendered := make([]string, 0, len(tabLabels))
	for i, label := range tabLabels {
		style := th.Tab
		if tab(i) == m.activeTab {
			style = th.ActiveTab
		}

		rendered = append(rendered, style.Render(fmt.Sprintf("%d %s", i+1, label)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) viewFooter() string {
	th := view.Theme()

	parts := []string{m.activeView().ShortHelp(), "1-5/Tab: switch | q: quit"}
	if m.status != "" {
		parts = append(parts, th.Success.Render(m.status))
	}

	if m.apiDown {
		parts = append(parts, th.Error.Render("API unreachable"))
	}

	return th.Faint.Render(strings.Join(parts, "  |  "))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	keyring, err := session.NewFileKeyring(cfg.Session.File)
	if err != nil {
		logger.Error("session file unavailable", zap.Error(err))
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, logger)
	store := session.NewStore(session.NewDemoDirectory(), keyring, logger)

	p := tea.NewProgram(newModel(client, store, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("failed to run TUI", zap.Error(err))
		os.Exit(1)
	}
}
