package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"maybeowned/internal/matrix"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyles = map[matrix.Status]lipgloss.Style{
		matrix.StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		matrix.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		matrix.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		matrix.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	statusMarks = map[matrix.Status]string{
		matrix.StatusQueued:  "·",
		matrix.StatusWorking: "…",
		matrix.StatusDone:    "ok",
		matrix.StatusError:   "FAIL",
	}
)

// opCell is one operator of the running matrix.
type opCell struct {
	op     string
	status matrix.Status
	err    error
}

// progressModel shows a matrix run as a row of operator cells that change
// colour as checks finish, with failures listed underneath.
type progressModel struct {
	table   string
	events  <-chan matrix.Event
	cells   []opCell
	byOp    map[string]*opCell
	spinner spinner.Model
	bar     progress.Model
	width   int
	done    bool
}

type eventMsg matrix.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model for a matrix run over ops of
// table. It quits once events is closed.
func NewProgressModel(table string, ops []string, events <-chan matrix.Event) tea.Model {
	m := &progressModel{
		table:   table,
		events:  events,
		cells:   make([]opCell, len(ops)),
		byOp:    make(map[string]*opCell, len(ops)),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:   80,
	}
	for i, op := range ops {
		m.cells[i] = opCell{op: op, status: matrix.StatusQueued}
		m.byOp[op] = &m.cells[i]
	}
	m.bar.Width = m.width - 4
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(matrix.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for the following matrix event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) apply(ev matrix.Event) tea.Cmd {
	cell, ok := m.byOp[ev.Op]
	if !ok {
		return nil
	}
	cell.status = ev.Status
	cell.err = ev.Err
	return m.bar.SetPercent(m.fraction())
}

// fraction counts a running check as half done.
func (m *progressModel) fraction() float64 {
	if len(m.cells) == 0 {
		return 1
	}
	var halves int
	for _, c := range m.cells {
		switch c.status {
		case matrix.StatusDone, matrix.StatusError:
			halves += 2
		case matrix.StatusWorking:
			halves++
		}
	}
	return float64(halves) / float64(2*len(m.cells))
}

func (m *progressModel) counts() (finished, failed int) {
	for _, c := range m.cells {
		switch c.status {
		case matrix.StatusError:
			failed++
			finished++
		case matrix.StatusDone:
			finished++
		}
	}
	return finished, failed
}

func (m *progressModel) View() string {
	var b strings.Builder

	finished, failed := m.counts()
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	header := fmt.Sprintf("%s matrix %s  %d/%d checked", lead, m.table, finished, len(m.cells))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	// Cells wrap to the terminal width.
	line, used := "  ", 2
	for _, c := range m.cells {
		chip := c.op + " " + statusMarks[c.status]
		w := runewidth.StringWidth(chip) + 2
		if used+w > m.width && used > 2 {
			b.WriteString(line + "\n")
			line, used = "  ", 2
		}
		line += statusStyles[c.status].Render(chip) + "  "
		used += w
	}
	b.WriteString(line + "\n")

	for _, c := range m.cells {
		if c.status == matrix.StatusError && c.err != nil {
			note := truncate(c.err.Error(), m.width-len(c.op)-6)
			fmt.Fprintf(&b, "  %s %s\n", statusStyles[matrix.StatusError].Render(c.op), note)
		}
	}

	b.WriteString("\n  ")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens value to width display columns, marking the cut with
// "..." when there is room for it.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
