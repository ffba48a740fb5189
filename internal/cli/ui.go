package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// =============================================================================
// Palette
// =============================================================================

// The accent is the pink of the default node fill.
var (
	colorAccent = lipgloss.Color("205")
	colorOK     = lipgloss.Color("78")
	colorWarn   = lipgloss.Color("214")
	colorFail   = lipgloss.Color("203")
	colorBright = lipgloss.Color("255")
	colorSubtle = lipgloss.Color("246")
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleMuted renders secondary text.
	StyleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleValue   = lipgloss.NewStyle().Foreground(colorBright)
	styleCommand = lipgloss.NewStyle().Foreground(colorAccent)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// =============================================================================
// Console
// =============================================================================

type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
	statusNote
)

var statusMarks = map[status]string{
	statusOK:   lipgloss.NewStyle().Foreground(colorOK).Render("✓"),
	statusFail: lipgloss.NewStyle().Foreground(colorFail).Render("✗"),
	statusWarn: lipgloss.NewStyle().Foreground(colorWarn).Render("!"),
	statusNote: lipgloss.NewStyle().Foreground(colorSubtle).Render("›"),
}

// console writes a command's human-readable report. Results go to out;
// the spinner animates on status so redirected output stays clean.
type console struct {
	out    io.Writer
	status io.Writer
}

func newConsole(cmd *cobra.Command) console {
	return console{out: cmd.OutOrStdout(), status: cmd.ErrOrStderr()}
}

func (c console) line(s string) {
	fmt.Fprintln(c.out, s)
}

func (c console) report(st status, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if st == statusWarn {
		msg = StyleWarning.Render(msg)
	}
	c.line(statusMarks[st] + " " + msg)
}

func (c console) ok(format string, args ...any)   { c.report(statusOK, format, args...) }
func (c console) warn(format string, args ...any) { c.report(statusWarn, format, args...) }
func (c console) note(format string, args ...any) { c.report(statusNote, format, args...) }

func (c console) detail(format string, args ...any) {
	c.line("  " + StyleMuted.Render(fmt.Sprintf(format, args...)))
}

func (c console) file(path string) {
	c.line("  " + StyleMuted.Render("→") + " " + styleValue.Render(path))
}

// next suggests the command to run after this one.
func (c console) next(step, command string) {
	c.line("")
	c.line(StyleMuted.Render(step+":") + " " + styleCommand.Render(command))
}

// summary joins facts into one muted, dot-separated line.
func (c console) summary(parts ...string) {
	c.line("  " + StyleMuted.Render(strings.Join(parts, " · ")))
}

// graph summarizes a graph's size and where it came from.
func (c console) graph(nodes, edges int, cached bool) {
	origin := "fresh"
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	c.summary(plural(nodes, "node"), plural(edges, "edge"), origin)
}

// layout summarizes how a layout was produced and how settled it is.
func (c console) layout(f layout.File) {
	c.summary(
		plural(f.Passes, "pass"),
		fmt.Sprintf("max move %.4f", f.Stats.MaxDisplacement),
		fmt.Sprintf("seed %d", f.Seed),
	)
	c.summary(paramsLine(f.Params))
}

// frame summarizes a published scheduler frame.
func (c console) frame(f *scheduler.Frame) {
	c.note("Stopped at frame %d (epoch %d)", f.Seq, f.Epoch)
	c.summary(
		plural(f.Stats.Passes, "pass")+" in last batch",
		fmt.Sprintf("max move %.4f", f.Stats.MaxDisplacement),
	)
}

func paramsLine(p layout.Params) string {
	return fmt.Sprintf("spring %g × %g · repulsion %g", p.SpringLength, p.SpringStiffness, p.RepulsionStrength)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "s") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
