package view_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pfcopilot/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pfcopilot/internal/session"
)

func TestProfile_ShowsSession(t *testing.T) {
	m := view.NewProfileModel().WithSession(&session.Session{
		ID:       3,
		Email:    "demo@example.com",
		Username: "demo_user",
	})

	out := m.View()
	assert.Contains(t, out, "demo_user")
	assert.Contains(t, out, "demo@example.com")
	assert.Contains(t, out, "Demo Account")
}

func TestProfile_MultibyteUsernameInitial(t *testing.T) {
	m := view.NewProfileModel().WithSession(&session.Session{
		ID:       4,
		Email:    "agatha@example.com",
		Username: "ágatha",
	})

	// The avatar shows the uppercased first rune, never a split byte.
	assert.Contains(t, m.View(), "Á")
}

func TestProfile_LogoutKey(t *testing.T) {
	m := view.NewProfileModel().WithSession(&session.Session{ID: 3, Username: "demo_user"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if assert.NotNil(t, cmd) {
		_, ok := cmd().(view.LogoutMsg)
		assert.True(t, ok)
	}
}
