// Package cli implements the forcegraph command-line interface.
//
// Batch commands (generate, layout, render) write graph, layout and drawing
// files and cache layouts and artifacts. Live commands (watch, view, serve)
// drive a background scheduler and present each frame it publishes.
//
// # Output
//
// Results and next steps are written to the command's stdout. Logs and the
// progress spinner go to stderr, so
//
//	forcegraph generate -o - | jq .
//
// stays machine readable. --verbose (-v) lowers the log level to debug and
// adds the caller to every record.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger returns a logger colored with the CLI palette. Debug loggers
// also report the caller.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		ReportCaller:    level <= log.DebugLevel,
	})
	l.SetStyles(logStyles())
	return l
}

func logStyles() *log.Styles {
	st := log.DefaultStyles()
	st.Levels[log.InfoLevel] = st.Levels[log.InfoLevel].Foreground(colorAccent)
	st.Levels[log.WarnLevel] = st.Levels[log.WarnLevel].Foreground(colorWarn)
	st.Levels[log.ErrorLevel] = st.Levels[log.ErrorLevel].Foreground(colorFail)
	st.Keys["error"] = lipgloss.NewStyle().Foreground(colorFail)
	st.Keys["took"] = lipgloss.NewStyle().Foreground(colorSubtle)
	return st
}

// stage times one step of a command.
type stage struct {
	logger *log.Logger
	msg    string
	start  time.Time
}

func startStage(l *log.Logger, msg string) stage {
	return stage{logger: l, msg: msg, start: time.Now()}
}

// done logs the stage message with keyvals and the elapsed time as "took".
func (s stage) done(keyvals ...any) {
	took := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(s.msg, append(keyvals, "took", took)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
