package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// Watch styles
var (
	watchDimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	watchNodeStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	watchPauseStyle = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	watchDoneStyle  = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
)

const (
	plotWidth    = 64
	plotHeight   = 20
	historyLen   = plotWidth
	sparkLevels  = "▁▂▃▄▅▆▇█"
	plotNodeRune = '●'
)

// =============================================================================
// WatchModel - Live layout progress
// =============================================================================

type (
	tickMsg  time.Time
	frameMsg struct{ frame *scheduler.Frame }
)

// WatchModel is the bubbletea model for the watch command. It is the
// presentation context of a scheduler: it ticks on the scheduler interval
// and redraws on every published frame.
type WatchModel struct {
	ctx   context.Context
	sched *scheduler.Scheduler
	g     *graph.Graph

	Frame   *scheduler.Frame
	History []float64
	Paused  bool
	Err     error
}

// NewWatchModel creates a watch model over sched.
func NewWatchModel(ctx context.Context, sched *scheduler.Scheduler, g *graph.Graph) WatchModel {
	return WatchModel{ctx: ctx, sched: sched, g: g, Frame: sched.Latest()}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitFrame())
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.sched.Options().Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) waitFrame() tea.Cmd {
	updates := m.sched.Updates()
	return func() tea.Msg {
		return frameMsg{frame: <-updates}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.Paused = !m.Paused
		case "r":
			if _, err := m.sched.Reseed(m.ctx, layout.NewSnapshot(m.g, nil)); err != nil {
				m.Err = err
			}
			m.History = nil
		}
	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		if !m.Paused {
			m.sched.Tick(m.ctx)
		}
		return m, m.tick()
	case frameMsg:
		if msg.frame == nil {
			// updates closed
			return m, tea.Quit
		}
		m.Frame = msg.frame
		if msg.frame.Stats.Passes > 0 {
			m.History = appendHistory(m.History, msg.frame.Stats.MaxDisplacement)
		}
		return m, m.waitFrame()
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("forcegraph watch"))
	switch {
	case m.Paused:
		b.WriteString("  " + watchPauseStyle.Render("paused"))
	case m.sched.Converged():
		b.WriteString("  " + watchDoneStyle.Render("converged"))
	}
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render("space pause  r reseed  q quit"))
	b.WriteString("\n\n")

	if m.Frame != nil {
		b.WriteString(watchNodeStyle.Render(strings.Join(plotSnapshot(m.Frame.Snapshot, plotWidth, plotHeight), "\n")))
		b.WriteString("\n\n")
		b.WriteString(m.statsTable())
		b.WriteString("\n")
	}
	if len(m.History) > 0 {
		b.WriteString(watchDimStyle.Render("max displacement ") + sparkline(m.History))
		b.WriteString("\n")
	}
	if m.Err != nil {
		b.WriteString(StyleWarning.Render(m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m WatchModel) statsTable() string {
	f := m.Frame
	c := m.sched.Stats()
	headerStyle := lipgloss.NewStyle().Foreground(colorSubtle).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Seq", "Epoch", "Nodes", "Max Δ", "Batch", "Ticks", "Drops", "Discards").
		Row(
			fmt.Sprint(f.Seq),
			fmt.Sprint(f.Epoch),
			fmt.Sprint(f.Snapshot.Len()),
			fmt.Sprintf("%.3f", f.Stats.MaxDisplacement),
			f.Duration.Round(time.Microsecond).String(),
			fmt.Sprint(c.Ticks),
			fmt.Sprint(c.Drops),
			fmt.Sprint(c.Discards),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorBright)
		})
	return t.Render()
}

// =============================================================================
// Helpers
// =============================================================================

func appendHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyLen {
		h = h[len(h)-historyLen:]
	}
	return h
}

// sparkline draws values as block characters scaled to the largest value.
func sparkline(values []float64) string {
	levels := []rune(sparkLevels)
	hi := 0.0
	for _, v := range values {
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > 0 {
			i = int(v / hi * float64(len(levels)-1))
		}
		b.WriteRune(levels[i])
	}
	return b.String()
}

// plotSnapshot rasterizes node centers onto a w×h character grid fitted to
// the snapshot bounds.
func plotSnapshot(s *layout.Snapshot, w, h int) []string {
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
	}

	bounds, ok := s.Bounds()
	if ok {
		sx, sy := bounds.Width(), bounds.Height()
		for i := range s.Len() {
			p := s.Position(i)
			col, row := w/2, h/2
			if sx > 0 {
				col = int((p.X - bounds.Min.X) / sx * float64(w-1))
			}
			if sy > 0 {
				row = int((p.Y - bounds.Min.Y) / sy * float64(h-1))
			}
			grid[row][col] = plotNodeRune
		}
	}

	lines := make([]string, h)
	for y, r := range grid {
		lines[y] = string(r)
	}
	return lines
}
