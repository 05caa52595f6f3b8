package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pfcopilot/internal/session"
)

// ProfileModel is a read-only display of the live session plus the theme
// toggle. Its logout affordance mirrors the root's.
type ProfileModel struct {
	CommonModel
	sess *session.Session
}

func NewProfileModel() ProfileModel {
	return ProfileModel{}
}

func (m ProfileModel) Title() string     { return "Profile" }
func (m ProfileModel) ShortHelp() string { return "t: toggle theme | l: logout" }

func (m ProfileModel) WithSession(sess *session.Session) ProfileModel {
	m.sess = sess
	return m
}

func (m ProfileModel) Init() tea.Cmd {
	return nil
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "t":
			ToggleTheme()
			return m, nil
		case "l":
			return m, func() tea.Msg { return LogoutMsg{} }
		}
	}

	return m, nil
}

func (m ProfileModel) View() string {
	if m.sess == nil {
		return ""
	}

	initial := "?"
	if m.sess.Username != "" {
		// First rune, not first byte: usernames may start multibyte.
		r, _ := utf8.DecodeRuneInString(m.sess.Username)
		initial = strings.ToUpper(string(r))
	}

	avatar := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("25")).
		Padding(0, 1).
		Bold(true).
		Render(initial)

	identity := fmt.Sprintf("%s %s\n  %s",
		avatar,
		Theme().Title.Render(m.sess.Username),
		Theme().Faint.Render(m.sess.Email),
	)

	details := strings.Join([]string{
		row("User ID", fmt.Sprintf("%d", m.sess.ID)),
		row("Account Type", "Demo Account"),
		row("Theme", Theme().Name),
	}, "\n")

	hint := Theme().Faint.Render(m.ShortHelp())

	return lipgloss.NewStyle().Padding(1).Render(
		Theme().Panel.Render(
			lipgloss.JoinVertical(lipgloss.Left, identity, "", details, "", hint),
		),
	)
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", Theme().Faint.Render(fmt.Sprintf("%-14s", label)), value)
}
