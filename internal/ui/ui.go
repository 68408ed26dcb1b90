package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/tasks"
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	ctrl      *tasks.UploadController
	outputDir string
	input     textinput.Model
	spinner   spinner.Model
	savedPath string
	saveErr   error
	width     int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model around ctrl. Saved results go to outputDir.
func NewModel(ctx context.Context, ctrl *tasks.UploadController, outputDir string) *Model {
	input := textinput.New()
	input.Placeholder = "path/to/data.csv"
	input.Prompt = "File: "
	input.Focus()

	return &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		outputDir: outputDir,
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.ctrl.State().Status() != models.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgUploadComplete:
			m.ctrl.Complete(msg.data.(tasks.Outcome))
			return m, nil
		case MsgResultSaved:
			data := msg.data.(struct {
				path string
				err  error
			})
			m.savedPath, m.saveErr = data.path, data.err
			return m, nil
		}
	}

	return m.updateInput(msg)
}

// View renders the form, the loading indicator and the outcome of the last submission.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(models.Title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderSubmit())
	b.WriteString("\n")

	state := m.ctrl.State()
	if msg, ok := state.Message(); ok {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(msg))
		b.WriteString("\n")
	}
	if result, ok := state.Result(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderDownload(result))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// Close releases the session. Called when the program exits.
func (m *Model) Close() {
	m.ctrl.Close()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.save):
		return m, m.save()
	}
	return m.updateInput(msg)
}

// updateInput forwards msg to the path input and keeps the selected file in step with its value.
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if path := strings.TrimSpace(m.input.Value()); path == "" {
		m.ctrl.ClearFile()
	} else if f, ok := m.ctrl.SelectedFile(); !ok || f.Path != path {
		m.ctrl.SelectFile(models.FileFromPath(path))
	}
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	upload, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}
	m.savedPath, m.saveErr = "", nil

	ctx := m.ctx
	run := func() tea.Msg {
		return uploadCompleteMsg(upload.Do(ctx))
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) save() tea.Cmd {
	result, ok := m.ctrl.State().Result()
	if !ok {
		return nil
	}
	dir := m.outputDir
	return func() tea.Msg {
		path, err := result.Save(dir)
		return resultSavedMsg(path, err)
	}
}

func (m *Model) renderSubmit() string {
	label := m.ctrl.SubmitLabel()
	switch {
	case m.ctrl.State().Status() == models.StatusLoading:
		return styles.disabled.Render(m.spinner.View() + " " + label)
	case m.ctrl.CanSubmit():
		return styles.button.Render(label)
	default:
		return styles.disabled.Render(label)
	}
}

func (m *Model) renderDownload(result *models.Result) string {
	line := styles.ok.Render(fmt.Sprintf("✓ Download Predictions: %s (%d bytes)", result.Filename(), result.Size()))

	switch {
	case m.saveErr != nil:
		line += "\n" + styles.err.Render(fmt.Sprintf("Save failed: %v", m.saveErr))
	case m.savedPath != "":
		line += "\n" + styles.ok.Render("Saved to "+m.savedPath)
	default:
		line += "\n" + styles.help.Render("Press ctrl+s to save")
	}
	return line
}
