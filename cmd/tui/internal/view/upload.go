package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pfcopilot/internal/api"
	"github.com/MrJamesThe3rd/pfcopilot/internal/csvcheck"
)

type uploadState int

const (
	uploadStatePick uploadState = iota
	uploadStateConfirm
	uploadStateUploading
	uploadStateResult
)

type UploadModel struct {
	CommonModel
	client Client

	state      uploadState
	filePicker filepicker.Model

	selectedPath string
	report       *csvcheck.Report

	status string
	err    error
}

func NewUploadModel(client Client) UploadModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return UploadModel{
		client:     client,
		filePicker: fp,
	}
}

func (m UploadModel) Title() string { return "Upload Transactions" }

func (m UploadModel) ShortHelp() string {
	switch m.state {
	case uploadStateConfirm:
		return "Enter: upload | Esc: choose another file"
	case uploadStateResult:
		return "Esc: upload another file"
	}

	return "Navigate | Enter: select CSV"
}

func (m UploadModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == uploadStateConfirm && msg.Type == tea.KeyEnter {
			m.state = uploadStateUploading
			m.status = fmt.Sprintf("Uploading %s...", m.selectedPath)

			return m, m.uploadCmd()
		}

	case preflightMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Cannot upload %s: %v", msg.path, msg.err)
			return m, nil
		}

		m.selectedPath = msg.path
		m.report = msg.report
		m.state = uploadStateConfirm
		m.status = ""

		return m, nil

	case uploadResultMsg:
		m.state = uploadStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = uploadErrorText(msg.err)

			return m, nil
		}

		// Success: clear the selection and hand control to the root,
		// which reloads data and jumps to the dashboard.
		m.err = nil
		m.status = msg.message
		m.selectedPath = ""
		m.report = nil

		message := msg.message

		return m, func() tea.Msg { return UploadedMsg{Message: message} }
	}

	if m.state != uploadStatePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		return m, m.preflightCmd(path)
	}

	return m, cmd
}

func (m UploadModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case uploadStateConfirm, uploadStateResult:
		m.state = uploadStatePick
		m.selectedPath = ""
		m.report = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case uploadStateUploading:
		// Let the in-flight upload finish; its result message lands next.
		return m, nil
	}

	return m, nil
}

func (m UploadModel) View() string {
	switch m.state {
	case uploadStatePick:
		return m.viewPick()
	case uploadStateConfirm:
		return m.viewConfirm()
	case uploadStateUploading:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case uploadStateResult:
		return m.viewResult()
	}

	return ""
}

func (m UploadModel) viewPick() string {
	header := "Select a transactions CSV to upload:"

	hint := Theme().Faint.Render(
		"Expected columns: date (YYYY-MM-DD or MM/DD/YYYY), description, amount (negative = expense)",
	)

	body := fmt.Sprintf("%s\n\n%s\n\n%s", header, m.filePicker.View(), hint)
	if m.status != "" {
		body = Theme().Error.Render(m.status) + "\n\n" + body
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

func (m UploadModel) viewConfirm() string {
	summary := fmt.Sprintf("%d rows ready to import", m.report.Rows)
	if m.report.Skipped > 0 {
		summary += fmt.Sprintf(" (%d unparseable rows will be skipped)", m.report.Skipped)
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("Selected: %s\n\n%s\n\n%s",
			Theme().Accent.Render(m.selectedPath),
			summary,
			Theme().Faint.Render(m.ShortHelp()),
		),
	)
}

func (m UploadModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(Theme().Error.Render(m.status) + "\n\n(Esc to try again)")
	}

	return style.Render(Theme().Success.Render(m.status) + "\n\n(Esc to upload another file)")
}

// uploadErrorText prefers the server-provided detail over a raw transport
// error dump.
func uploadErrorText(err error) string {
	if statusErr, ok := api.AsStatusError(err); ok && statusErr.Detail != "" {
		return statusErr.Detail
	}

	return "Upload failed"
}

// Messages

type preflightMsg struct {
	path   string
	report *csvcheck.Report
	err    error
}

func (m UploadModel) preflightCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return preflightMsg{path: path, err: err}
		}
		defer f.Close()

		report, err := csvcheck.Preflight(path, f)

		return preflightMsg{path: path, report: report, err: err}
	}
}

type uploadResultMsg struct {
	message string
	err     error
}

func (m UploadModel) uploadCmd() tea.Cmd {
	client := m.client
	path := m.selectedPath

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := APICtx()
		defer cancel()

		message, err := client.UploadCSV(ctx, filepath.Base(path), f)
		if err != nil {
			return uploadResultMsg{err: err}
		}

		return uploadResultMsg{message: message}
	}
}
