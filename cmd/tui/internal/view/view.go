package view

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

//go:generate mockgen -source=view.go -destination=client_mock.go -package=view

// Client is the slice of the finance API the views consume.
type Client interface {
	UploadCSV(ctx context.Context, filename string, r io.Reader) (string, error)
	ListTransactions(ctx context.Context, params api.ListParams) ([]api.Transaction, error)
	UpdateTransaction(ctx context.Context, id int, params api.UpdateParams) (*api.Transaction, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	DashboardSummary(ctx context.Context) (*api.DashboardSummary, error)
	QueryCopilot(ctx context.Context, question string) (*api.CopilotAnswer, error)
	Health(ctx context.Context) (*api.HealthInfo, error)
}

// View is the interface all screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// apiTimeout bounds view-issued API calls. Slightly above the client's own
// request timeout so the transport error wins.
const apiTimeout = 15 * time.Second

// APICtx returns the context views and the root model use for API calls.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// Messages consumed by the root model.

// AuthenticatedMsg reports a successful login or registration.
type AuthenticatedMsg struct{}

// UploadedMsg reports a successful CSV upload; the root reloads data and
// jumps to the dashboard.
type UploadedMsg struct {
	Message string
}

// TransactionSavedMsg reports a committed category reassignment; the root
// reloads data and keeps the current tab.
type TransactionSavedMsg struct{}

// LogoutMsg asks the root to end the session.
type LogoutMsg struct{}
