package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

func newWatchModel(t *testing.T) WatchModel {
	t.Helper()
	g, err := graph.Tree(graph.NewEmojiPool(), 2, 3, geom.DefaultShape())
	if err != nil {
		t.Fatal(err)
	}
	sched, err := scheduler.New(layout.NewSnapshot(g, nil), scheduler.Options{Seed: 7, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sched.Close()
		sched.Wait()
	})
	return NewWatchModel(context.Background(), sched, g)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModelPause(t *testing.T) {
	m := newWatchModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(WatchModel)
	if !m.Paused {
		t.Fatal("space should pause")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should show paused state")
	}

	// A paused model keeps its timer but starts no batches.
	next, cmd := m.Update(tickMsg{})
	m = next.(WatchModel)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if runs := m.sched.Stats().Runs; runs != 0 {
		t.Errorf("paused tick started %d batches", runs)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if next.(WatchModel).Paused {
		t.Error("second space should resume")
	}
}

func TestWatchModelTickRunsBatch(t *testing.T) {
	m := newWatchModel(t)

	m.Update(tickMsg{})
	m.sched.Wait()

	if runs := m.sched.Stats().Runs; runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if seq := m.sched.Latest().Seq; seq != 1 {
		t.Errorf("latest seq = %d, want 1", seq)
	}
}

func TestWatchModelReseed(t *testing.T) {
	m := newWatchModel(t)
	m.History = []float64{1, 2}

	next, _ := m.Update(runeKey("r"))
	m = next.(WatchModel)

	if m.Err != nil {
		t.Fatalf("reseed error: %v", m.Err)
	}
	if epoch := m.sched.Latest().Epoch; epoch != 1 {
		t.Errorf("epoch = %d, want 1", epoch)
	}
	if len(m.History) != 0 {
		t.Error("reseed should reset the displacement history")
	}
}

func TestWatchModelFrames(t *testing.T) {
	m := newWatchModel(t)
	base := m.sched.Latest()

	frame := &scheduler.Frame{Seq: 3, Snapshot: base.Snapshot, Stats: layout.Stats{MaxDisplacement: 1.5, Passes: 8}}
	next, cmd := m.Update(frameMsg{frame: frame})
	m = next.(WatchModel)
	if m.Frame != frame {
		t.Error("frame message should replace the shown frame")
	}
	if len(m.History) != 1 || m.History[0] != 1.5 {
		t.Errorf("history = %v, want [1.5]", m.History)
	}
	if cmd == nil {
		t.Error("frame message should wait for the next frame")
	}

	_, cmd = m.Update(frameMsg{})
	if cmd == nil {
		t.Fatal("closed updates should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("closed updates should return tea.Quit")
	}
}

func TestWatchModelQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m := newWatchModel(t)
			_, cmd := m.Update(key)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"rising", []float64{0, 1}, "▁█"},
		{"zeros", []float64{0, 0, 0}, "▁▁▁"},
		{"half", []float64{2, 1, 0}, "█▄▁"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sparkline(tt.values); got != tt.want {
				t.Errorf("sparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestAppendHistoryBounded(t *testing.T) {
	var h []float64
	for i := range historyLen + 10 {
		h = appendHistory(h, float64(i))
	}
	if len(h) != historyLen {
		t.Fatalf("len = %d, want %d", len(h), historyLen)
	}
	if h[len(h)-1] != float64(historyLen+9) {
		t.Errorf("last = %v, want newest value", h[len(h)-1])
	}
}

func TestPlotSnapshot(t *testing.T) {
	b := graph.NewBuilder()
	for _, label := range []string{"a", "b", "c"} {
		if _, err := b.AddNode(label, geom.Circle(1)); err != nil {
			t.Fatal(err)
		}
	}
	s, err := layout.NewSnapshotAt(b.Build(), []geom.Vec{geom.V(0, 0), geom.V(100, 0), geom.V(50, 50)})
	if err != nil {
		t.Fatal(err)
	}

	lines := plotSnapshot(s, 20, 10)
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	count := 0
	for _, line := range lines {
		if n := len([]rune(line)); n != 20 {
			t.Errorf("line width = %d, want 20", n)
		}
		count += strings.Count(line, string(plotNodeRune))
	}
	if count != 3 {
		t.Errorf("plotted %d nodes, want 3", count)
	}
}
