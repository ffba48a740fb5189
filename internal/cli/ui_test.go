package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{0, "node", "0 nodes"},
		{1, "node", "1 node"},
		{6, "edge", "6 edges"},
		{1, "pass", "1 pass"},
		{300, "pass", "300 passes"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}

func TestConsoleLayout(t *testing.T) {
	var buf bytes.Buffer
	out := console{out: &buf}
	out.layout(layout.File{
		Params: layout.DefaultParams(),
		Passes: 300,
		Seed:   42,
		Stats:  layout.Stats{MaxDisplacement: 0.25, Passes: 300},
	})

	got := buf.String()
	for _, want := range []string{"300 passes", "max move 0.2500", "seed 42", "repulsion 3600"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("layout summary is %d lines, want 2", n)
	}
}

func TestConsoleFrame(t *testing.T) {
	var buf bytes.Buffer
	console{out: &buf}.frame(&scheduler.Frame{Seq: 17, Epoch: 2, Stats: layout.Stats{Passes: 8, MaxDisplacement: 1.5}})

	got := buf.String()
	for _, want := range []string{"Stopped at frame 17 (epoch 2)", "8 passes in last batch", "max move 1.5000"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConsoleStatusLines(t *testing.T) {
	var buf bytes.Buffer
	out := console{out: &buf}
	out.ok("Rendered %s", plural(2, "file"))
	out.warn("cache %s", "off")
	out.file("tree.svg")
	out.graph(4, 6, true)
	out.next("Render", "forcegraph render tree.layout.json")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{"Rendered 2 files", "cache off", "tree.svg", "4 nodes · 6 edges · ", "", "forcegraph render tree.layout.json"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
	if !strings.HasPrefix(lines[0], statusMarks[statusOK]) {
		t.Errorf("success line %q should start with the success mark", lines[0])
	}
}
