package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pfcopilot/internal/session"
)

type authMode int

const (
	authModeLogin authMode = iota
	authModeRegister
)

type AuthModel struct {
	CommonModel
	store *session.Store

	mode       authMode
	form       *huh.Form
	submitting bool
	errMsg     string

	// Form field bindings
	formEmail    string
	formUsername string
	formPassword string
}

func NewAuthModel(store *session.Store) AuthModel {
	m := AuthModel{store: store}
	m.form = m.buildForm()

	return m
}

func (m AuthModel) Title() string {
	if m.mode == authModeRegister {
		return "Create Account"
	}

	return "Sign In"
}

func (m AuthModel) ShortHelp() string {
	if m.mode == authModeRegister {
		return "Enter: submit | Ctrl+T: sign in instead"
	}

	return "Enter: submit | Ctrl+T: create an account"
}

func (m AuthModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlT && !m.submitting {
			if m.mode == authModeLogin {
				m.mode = authModeRegister
			} else {
				m.mode = authModeLogin
			}

			m.errMsg = ""
			m.formPassword = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

	case authResultMsg:
		m.submitting = false
		if !msg.ok {
			// Generic on purpose: the caller learns success or failure,
			// nothing about which field was wrong.
			if m.mode == authModeRegister {
				m.errMsg = "Email or username already taken."
			} else {
				m.errMsg = "Invalid email or password."
			}

			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return AuthenticatedMsg{} }
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The Value bindings point into the model copy that built the form,
	// so the committed values are read back from the form by key.
	email := strings.TrimSpace(m.form.GetString("email"))
	username := strings.TrimSpace(m.form.GetString("username"))
	password := m.form.GetString("password")

	// Prefill for the rebuild on a failed attempt.
	m.formEmail = email
	m.formUsername = username

	m.submitting = true
	m.errMsg = ""

	return m, m.submitCmd(email, username, password)
}

func (m AuthModel) View() string {
	title := Theme().Title.Render("Personal Finance Copilot")
	subtitle := Theme().Subtitle.Render("Analyze your expenses with AI-powered insights")

	var body string

	switch {
	case m.submitting:
		body = Theme().Faint.Render("Signing in...")
	default:
		body = m.form.View()
	}

	if m.errMsg != "" {
		body = Theme().Error.Render(m.errMsg) + "\n\n" + body
	}

	hint := Theme().Faint.Render(m.ShortHelp())
	demo := Theme().Faint.Render("Demo account: demo@example.com / password123")

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", hint, demo)

	return lipgloss.NewStyle().Padding(2).Render(Theme().Panel.Render(content))
}

func (m *AuthModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("email").
			Title("Email").
			Value(&m.formEmail).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("enter a valid email address")
				}
				return nil
			}),
	}

	if m.mode == authModeRegister {
		fields = append(fields,
			huh.NewInput().
				Key("username").
				Title("Username").
				Value(&m.formUsername).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username cannot be empty")
					}
					return nil
				}),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.formPassword).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password cannot be empty")
				}
				return nil
			}),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
}

type authResultMsg struct {
	ok bool
}

func (m AuthModel) submitCmd(email, username, password string) tea.Cmd {
	mode := m.mode
	store := m.store

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if mode == authModeRegister {
			return authResultMsg{ok: store.Register(ctx, email, username, password)}
		}

		return authResultMsg{ok: store.Login(ctx, email, password)}
	}
}
