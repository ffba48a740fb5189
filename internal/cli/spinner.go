package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerFrames   = spinner.MiniDot.Frames
	spinnerInterval = spinner.MiniDot.FPS
)

// statusSpinner animates a status line while a layout or render runs. Fed by
// pipeline progress it also counts solver passes.
//
// Only the animation goroutine writes to w.
type statusSpinner struct {
	w     io.Writer
	label string

	passes atomic.Int64
	total  atomic.Int64

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once

	drawn int
}

// startSpinner draws on w until Stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *statusSpinner {
	s := &statusSpinner{
		w:       w,
		label:   label,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.animate(ctx)
	return s
}

// progress records solver passes; it has the shape of pipeline.ProgressFunc.
func (s *statusSpinner) progress(done, total int) {
	s.total.Store(int64(total))
	s.passes.Store(int64(done))
}

// text is the line shown for animation step i.
func (s *statusSpinner) text(i int) string {
	msg := s.label
	if total := s.total.Load(); total > 0 {
		done := s.passes.Load()
		msg = fmt.Sprintf("%s %d/%d passes (%d%%)", s.label, done, total, done*100/total)
	}
	return styleSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleMuted.Render(msg)
}

func (s *statusSpinner) animate(ctx context.Context) {
	defer close(s.stopped)
	defer s.erase()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.draw(s.text(i))
		}
	}
}

// draw overwrites the previous line, padding when the new one is shorter.
func (s *statusSpinner) draw(line string) {
	width := lipgloss.Width(line)
	pad := max(s.drawn-width, 0)
	fmt.Fprintf(s.w, "\r%s%s", line, strings.Repeat(" ", pad))
	s.drawn = width
}

func (s *statusSpinner) erase() {
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	}
}

// Stop ends the animation and clears its line. It is safe to call more
// than once and after ctx has ended.
func (s *statusSpinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped
}
