// Package tui is the interactive presentation of the task list.
//
// The model owns no task state of its own beyond a render copy: every
// change goes through the Service and the resulting list comes back as a
// message.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tarefa/internal/service"
	"tarefa/internal/task"
)

// bannerTTL is how long an error banner stays visible.
const bannerTTL = 4 * time.Second

const readOnlyNotice = "read-only: stored tasks could not be read"

type mode int

const (
	modeList mode = iota
	modeForm
)

type loadedMsg struct {
	tasks []task.Task
	err   error
}

type changedMsg struct {
	tasks []task.Task
	err   error
}

type clearBannerMsg struct {
	id int
}

// Model is the bubbletea model of the task list screen.
type Model struct {
	ctx context.Context
	svc service.Service

	tasks    []task.Task
	cursor   int
	mode     mode
	input    textinput.Model
	loading  bool
	readOnly bool
	banner   string
	bannerID int
	width    int
	quitting bool
}

// New creates a model over svc. The list is loaded when the program starts.
func New(ctx context.Context, svc service.Service) Model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 500
	input.Prompt = "> "

	return Model{
		ctx:     ctx,
		svc:     svc,
		input:   input,
		loading: true,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, m Model, out io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Load(ctx)
		return loadedMsg{tasks: svc.Tasks(), err: err}
	}
}

func (m Model) addCmd(text string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Add(ctx, text)
		return changedMsg{tasks: svc.Tasks(), err: err}
	}
}

func (m Model) deleteCmd(key string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Delete(ctx, key)
		return changedMsg{tasks: svc.Tasks(), err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.setTasks(msg.tasks)
		if msg.err != nil {
			// Saving now would replace the unreadable value.
			m.readOnly = true
			return m.showBanner(fmt.Sprintf("stored tasks unreadable, list is read-only: %v", msg.err))
		}
		return m, nil

	case changedMsg:
		m.setTasks(msg.tasks)
		if msg.err != nil {
			return m.showBanner(fmt.Sprintf("could not save: %v", msg.err))
		}
		return m, nil

	case clearBannerMsg:
		if msg.id == m.bannerID {
			m.banner = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "a", "n":
		if m.loading {
			return m, nil
		}
		if m.readOnly {
			return m.showBanner(readOnlyNotice)
		}
		m.mode = modeForm
		m.input.Reset()
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "d", "x":
		if len(m.tasks) == 0 {
			return m, nil
		}
		if m.readOnly {
			return m.showBanner(readOnlyNotice)
		}
		return m, m.deleteCmd(m.tasks[m.cursor].Key)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.closeForm()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.closeForm()
		// Blank input is ignored.
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, m.addCmd(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) setTasks(tasks []task.Task) {
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

func (m Model) showBanner(text string) (tea.Model, tea.Cmd) {
	m.bannerID++
	m.banner = text
	id := m.bannerID
	return m, tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return clearBannerMsg{id: id}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("My tasks"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(emptyStyle.Render("Loading..."))
		b.WriteString("\n")
	case m.readOnly && len(m.tasks) == 0:
		b.WriteString(emptyStyle.Render("Stored tasks could not be read."))
		b.WriteString("\n")
	case len(m.tasks) == 0:
		b.WriteString(emptyStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
	default:
		for i, t := range m.tasks {
			b.WriteString(m.renderTask(i, t))
			b.WriteString("\n")
		}
	}

	if m.mode == modeForm {
		b.WriteString("\n")
		b.WriteString(formStyle.Render("New task\n" + m.input.View()))
		b.WriteString("\n")
	}

	if m.banner != "" {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render(m.banner))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTask(i int, t task.Task) string {
	num := numberStyle.Render(fmt.Sprintf("%3d.", i+1))
	text := strings.ReplaceAll(t.Text, "\n", " ")
	if i == m.cursor && m.mode == modeList {
		return cursorStyle.Render("> ") + num + " " + selectedStyle.Render(text)
	}
	return "  " + num + " " + itemStyle.Render(text)
}

func (m Model) helpLine() string {
	if m.mode == modeForm {
		return "enter: add • esc: cancel"
	}
	if m.readOnly {
		return "read-only • ↑/↓: move • q: quit"
	}
	return "a: add • d: delete • ↑/↓: move • q: quit"
}
