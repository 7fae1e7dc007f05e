// Package tui renders live batch progress while documents are analyzed.
// It consumes pipeline events from the bus and stays decoupled from the
// analysis code: if the display dies, the batch keeps running.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/lectern/internal/event"
	"github.com/Iron-Ham/lectern/internal/util"
)

const (
	maxNameWidth = 40
	maxLineWidth = 100
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// docState is the latest known progress of one document.
type docState struct {
	phase    string
	answered int
	failed   int
	total    int
	done     bool
	err      error
}

type model struct {
	total     int
	completed int
	failed    int
	finished  bool
	docs      map[string]*docState
}

// eventMsg wraps a bus event for delivery into the bubbletea loop.
type eventMsg struct{ ev event.Event }

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case eventMsg:
		m.apply(msg.ev)
		if m.finished {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) apply(ev event.Event) {
	switch ev := ev.(type) {
	case event.SessionPhaseEvent:
		m.doc(ev.Path).phase = ev.Phase
	case event.QuestionAnsweredEvent:
		d := m.doc(ev.Path)
		d.total = ev.Total
		if ev.Succeeded {
			d.answered++
		} else {
			d.failed++
		}
	case event.SessionDoneEvent:
		d := m.doc(ev.Path)
		d.done = true
		d.err = ev.Err
	case event.BatchProgressEvent:
		m.completed = ev.Completed
		m.failed = ev.Failed
		m.total = ev.Total
	case event.BatchFinishedEvent:
		m.finished = true
	}
}

func (m *model) doc(path string) *docState {
	if m.docs == nil {
		m.docs = make(map[string]*docState)
	}
	d, ok := m.docs[path]
	if !ok {
		d = &docState{}
		m.docs[path] = d
	}
	return d
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lectern"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d documents", m.completed+m.failed, m.total)))
	b.WriteString("\n\n")

	paths := make([]string, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		d := m.docs[p]
		name := util.TruncateString(filepath.Base(p), maxNameWidth)
		var line string
		switch {
		case d.done && d.err != nil:
			line = failStyle.Render("✗ "+name) + dimStyle.Render("  "+d.err.Error())
		case d.done:
			line = okStyle.Render("✓ " + name)
		default:
			line = "… " + name +
				dimStyle.Render(fmt.Sprintf("  %s %d/%d", strings.ToLower(d.phase), d.answered+d.failed, d.total))
		}
		// Error messages can run long; cap the styled line by visual width.
		b.WriteString(util.TruncateANSI(line, maxLineWidth))
		b.WriteString("\n")
	}

	if m.finished {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("done"))
		b.WriteString("\n")
	}
	return b.String()
}

// App runs the progress display and bridges bus events into it.
type App struct {
	prog *tea.Program
}

// New creates a progress display for a batch of the given size.
func New(total int) *App {
	m := model{total: total}
	return &App{prog: tea.NewProgram(m)}
}

// Attach subscribes the display to the bus. The returned function removes
// the subscription; call it before tearing the bus down.
func (a *App) Attach(bus *event.Bus) func() {
	id := bus.SubscribeAll(func(ev event.Event) {
		a.prog.Send(eventMsg{ev: ev})
	})
	return func() { bus.Unsubscribe(id) }
}

// Run blocks until the batch finishes or the user quits.
func (a *App) Run() error {
	_, err := a.prog.Run()
	return err
}

// Quit stops the display.
func (a *App) Quit() {
	a.prog.Quit()
}
