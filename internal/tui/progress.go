package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/imdix/internal/export"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// maxCopiesShown limits the per-file lines under the bar.
const maxCopiesShown = 4

// ProgressMsg carries one export progress event.
type ProgressMsg imdix.Progress

// CopyProgressMsg carries one file copy progress update.
type CopyProgressMsg struct {
	Destination string
	Percent     int
}

// DoneMsg ends the view.
type DoneMsg struct {
	Result export.Result
	Err    error
}

// ExportModel is the bubbletea model of a running export.
type ExportModel struct {
	title   string
	bar     progress.Model
	spinner spinner.Model
	keys    KeyMap
	cancel  func()

	current    imdix.Progress
	copies     map[string]int
	cancelling bool

	done   bool
	result export.Result
	err    error
}

// NewExportModel creates the view. cancel is called once when the user
// asks to stop.
func NewExportModel(title string, cancel func()) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ExportModel{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		spinner: s,
		keys:    DefaultKeyMap(),
		cancel:  cancel,
		copies:  make(map[string]int),
	}
}

// Init implements tea.Model.
func (m ExportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case m.done && key.Matches(msg, m.keys.Quit, m.keys.Cancel):
			return m, tea.Quit
		case !m.done && !m.cancelling && key.Matches(msg, m.keys.Cancel):
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, 80)
		return m, nil

	case ProgressMsg:
		m.current = imdix.Progress(msg)
		return m, nil

	case CopyProgressMsg:
		if msg.Percent >= 100 {
			delete(m.copies, msg.Destination)
		} else {
			m.copies[msg.Destination] = msg.Percent
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m ExportModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")

	if m.done {
		b.WriteString(m.summary())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.bar.ViewAs(float64(m.current.Percent) / 100))
	b.WriteString("\n")

	status := m.current.Message
	if m.current.Total > 0 {
		status = fmt.Sprintf("[%d/%d] %s", m.current.Current, m.current.Total, status)
	}
	if m.cancelling {
		status = WarningStyle.Render("Cancelling…")
	}
	b.WriteString(m.spinner.View() + " " + UnitStyle.Render(status))
	b.WriteString("\n")

	for _, line := range m.copyLines() {
		b.WriteString(CopyStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.keys.HelpText()))
	b.WriteString("\n")
	return b.String()
}

func (m ExportModel) copyLines() []string {
	dsts := make([]string, 0, len(m.copies))
	for dst := range m.copies {
		dsts = append(dsts, dst)
	}
	sort.Strings(dsts)

	var lines []string
	for i, dst := range dsts {
		if i == maxCopiesShown {
			lines = append(lines, fmt.Sprintf("%s and %d more", SymbolBullet, len(dsts)-maxCopiesShown))
			break
		}
		lines = append(lines, fmt.Sprintf("%s %3d%% %s", SymbolBullet, m.copies[dst], filepath.Base(dst)))
	}
	return lines
}

func (m ExportModel) summary() string {
	switch {
	case m.result.Phase == imdix.PhaseCancelled:
		return WarningStyle.Render(SymbolWarning + " Export cancelled; the output folder was removed")
	case m.err != nil:
		return ErrorStyle.Render(SymbolCross + " " + firstLine(m.err.Error()))
	}
	out := SuccessStyle.Render(SymbolCheck + " " + m.result.Summary())
	if n := len(m.result.CopyFailures); n > 0 {
		out += "\n" + WarningStyle.Render(fmt.Sprintf("%s %d file(s) could not be copied", SymbolWarning, n))
	}
	return out
}

// Cancelling reports whether the user asked to stop.
func (m ExportModel) Cancelling() bool {
	return m.cancelling
}

// Done reports whether the export finished.
func (m ExportModel) Done() bool {
	return m.done
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
