package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
)

// apologyAnswer replaces the raw error when the copilot call fails; the
// transcript never shows transport errors.
const apologyAnswer = "Sorry, I couldn't process your question. Please try again."

var sampleQuestions = []string{
	"How much did I spend on groceries last month?",
	"What was my biggest purchase in May?",
	"How much did I spend on restaurants this month?",
	"How many transactions did I have last month?",
	"What's my total spending on entertainment?",
}

// chatMessage is a UI-local transcript entry. Never persisted; the
// transcript resets with the process.
type chatMessage struct {
	id       uuid.UUID
	question string
	answer   string
	data     map[string]any
	askedAt  time.Time
}

type CopilotModel struct {
	CommonModel
	client Client

	input    textinput.Model
	messages []chatMessage
	pending  bool
}

func NewCopilotModel(client Client) CopilotModel {
	input := textinput.New()
	input.Placeholder = "Ask about your expenses..."
	input.CharLimit = 280
	input.Width = 60
	input.Focus()

	return CopilotModel{
		client: client,
		input:  input,
	}
}

func (m CopilotModel) Title() string     { return "Financial Copilot" }
func (m CopilotModel) ShortHelp() string { return "Enter: ask" }

// Pending reports whether a question is in flight.
func (m CopilotModel) Pending() bool { return m.pending }

func (m CopilotModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m CopilotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}

	case copilotAnswerMsg:
		m.pending = false

		entry := chatMessage{
			id:       uuid.New(),
			question: msg.question,
			askedAt:  time.Now(),
		}

		if msg.err != nil {
			entry.answer = apologyAnswer
		} else {
			entry.answer = msg.answer.Answer
			entry.data = msg.answer.Data
		}

		m.messages = append(m.messages, entry)

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// submit rejects empty questions and duplicate in-flight submissions
// before anything touches the network.
func (m CopilotModel) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.pending {
		return m, nil
	}

	m.pending = true
	m.input.Reset()

	return m, m.askCmd(question)
}

func (m CopilotModel) View() string {
	var sections []string

	sections = append(sections, Theme().Title.Render("💬 Financial Copilot"))

	// Sample questions only before the first exchange.
	if len(m.messages) == 0 && !m.pending {
		var b strings.Builder

		b.WriteString("Try asking questions like:\n")
		for _, q := range sampleQuestions {
			b.WriteString(Theme().Accent.Render(fmt.Sprintf("  %q", q)) + "\n")
		}

		sections = append(sections, b.String())
	}

	for _, msg := range m.messages {
		sections = append(sections, m.renderExchange(msg))
	}

	if m.pending {
		sections = append(sections, Theme().Faint.Render("Thinking..."))
	}

	sections = append(sections,
		m.input.View(),
		Theme().Faint.Render("💡 Tip: Ask about specific categories, time periods, or spending patterns"),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m CopilotModel) renderExchange(msg chatMessage) string {
	stamp := Theme().Faint.Render(msg.askedAt.Format("15:04"))

	question := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("25")).
		Padding(0, 1).
		Render("You: " + msg.question)

	var b strings.Builder

	b.WriteString(question + " " + stamp + "\n")
	b.WriteString(Theme().Panel.Render(msg.answer))

	if extra := renderAnswerData(msg.data); extra != "" {
		b.WriteString("\n" + Theme().Faint.Render(extra))
	}

	return b.String()
}

// renderAnswerData surfaces the structured fields the copilot sometimes
// attaches to an answer.
func renderAnswerData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	var parts []string

	if v, ok := data["category"]; ok && v != nil {
		parts = append(parts, fmt.Sprintf("Category: %v", v))
	}

	if v, ok := data["period"]; ok && v != nil {
		parts = append(parts, fmt.Sprintf("Period: %v", v))
	}

	if v, ok := data["transaction_count"]; ok && v != nil {
		parts = append(parts, fmt.Sprintf("Transactions: %v", v))
	}

	return strings.Join(parts, " | ")
}

type copilotAnswerMsg struct {
	question string
	answer   *api.CopilotAnswer
	err      error
}

func (m CopilotModel) askCmd(question string) tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		answer, err := client.QueryCopilot(ctx, question)

		return copilotAnswerMsg{question: question, answer: answer, err: err}
	}
}
