package graph

import (
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
)

func mustAdd(t *testing.T, b *Builder, label string) int {
	t.Helper()
	i, err := b.AddNode(label, geom.DefaultShape())
	if err != nil {
		t.Fatalf("AddNode(%q): %v", label, err)
	}
	return i
}

func TestBuilderAddNode(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		shape    geom.Shape
		wantCode errors.Code
	}{
		{name: "Circle", label: "a", shape: geom.Circle(10)},
		{name: "Rectangle", label: "b", shape: geom.Rectangle(30, 10)},
		{name: "Emoji", label: "😀", shape: geom.DefaultShape()},
		{name: "EmptyLabel", label: "", shape: geom.DefaultShape(), wantCode: errors.ErrCodeInvalidGraph},
		{name: "ControlChar", label: "a\nb", shape: geom.DefaultShape(), wantCode: errors.ErrCodeInvalidGraph},
		{name: "ZeroRadius", label: "c", shape: geom.Circle(0), wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownKind", label: "d", shape: geom.Shape{Kind: "hexagon"}, wantCode: errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			i, err := b.AddNode(tt.label, tt.shape)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("AddNode() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddNode() error = %v", err)
			}
			if i != 0 {
				t.Errorf("index = %d, want 0", i)
			}
			g := b.Build()
			if g.Label(0) != tt.label || g.Shape(0) != tt.shape {
				t.Errorf("node = %+v, want %q %v", g.Node(0), tt.label, tt.shape)
			}
		})
	}
}

func TestBuilderDuplicateLabel(t *testing.T) {
	b := NewBuilder()
	mustAdd(t, b, "a")
	_, err := b.AddNode("a", geom.Circle(5))
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("duplicate AddNode() error = %v, want INVALID_GRAPH", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBuilderConnect(t *testing.T) {
	b := NewBuilder()
	a := mustAdd(t, b, "a")
	c := mustAdd(t, b, "c")
	d := mustAdd(t, b, "d")

	if err := b.Connect(a, c); err != nil {
		t.Fatal(err)
	}
	if err := b.Connect(a, d); err != nil {
		t.Fatal(err)
	}
	if err := b.Connect(a, c); err != nil {
		t.Fatalf("repeated Connect() error = %v", err)
	}
	if err := b.Connect(a, 7); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("out of range Connect() error = %v, want INVALID_GRAPH", err)
	}
	if err := b.ConnectLabels("d", "missing"); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("ConnectLabels(unknown) error = %v, want INVALID_GRAPH", err)
	}

	g := b.Build()
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if got := g.Neighbors(a); len(got) != 2 || got[0] != c || got[1] != d {
		t.Errorf("Neighbors(a) = %v, want [%d %d]", got, c, d)
	}
	if !g.HasEdge(a, c) || g.HasEdge(c, a) {
		t.Error("HasEdge should be directed")
	}
	if !g.Adjacent(c, a) || !g.Adjacent(a, c) {
		t.Error("Adjacent should check both directions")
	}
	if g.Adjacent(c, d) {
		t.Error("c and d should not be adjacent")
	}
}

func TestBuildIsImmutable(t *testing.T) {
	b := NewBuilder()
	a := mustAdd(t, b, "a")
	c := mustAdd(t, b, "c")
	g := b.Build()

	if err := b.Link(a, c); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, b, "late")

	if g.Len() != 2 || g.EdgeCount() != 0 {
		t.Errorf("built graph changed: Len=%d EdgeCount=%d", g.Len(), g.EdgeCount())
	}
	if _, ok := g.Index("late"); ok {
		t.Error("built graph sees node added later")
	}
	g2 := b.Build()
	if !g2.HasEdge(a, c) || !g2.HasEdge(c, a) {
		t.Error("Link should connect both directions")
	}
}

func TestLabelPool(t *testing.T) {
	p := NewLabelPool([]string{"x", "y"})
	for _, want := range []string{"x", "y"} {
		got, err := p.Next()
		if err != nil || got != want {
			t.Fatalf("Next() = %q, %v; want %q", got, err, want)
		}
	}
	if p.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", p.Remaining())
	}
	if _, err := p.Next(); !errors.Is(err, errors.ErrCodePoolExhausted) {
		t.Errorf("Next() on empty pool error = %v, want POOL_EXHAUSTED", err)
	}
}

func TestEmojiPool(t *testing.T) {
	p := NewEmojiPool()
	if p.Remaining() != 80+256*3 {
		t.Errorf("Remaining() = %d, want %d", p.Remaining(), 80+256*3)
	}
	first, _ := p.Next()
	if first != "\U0001F600" {
		t.Errorf("first label = %q, want U+1F600", first)
	}
	for range 79 {
		_, _ = p.Next()
	}
	next, _ := p.Next()
	if next != "\U0001F300" {
		t.Errorf("81st label = %q, want U+1F300", next)
	}
}

func TestTreeSize(t *testing.T) {
	tests := []struct {
		depth, branches, want int
	}{
		{1, 5, 1},
		{2, 3, 4},
		{4, 4, 85},
		{3, 0, 1},
		{5, 1, 5},
	}
	for _, tt := range tests {
		if got := TreeSize(tt.depth, tt.branches, 1000); got != tt.want {
			t.Errorf("TreeSize(%d, %d) = %d, want %d", tt.depth, tt.branches, got, tt.want)
		}
	}
	if got := TreeSize(64, 64, 1000); got != 1001 {
		t.Errorf("TreeSize should saturate, got %d", got)
	}
}

func TestTree(t *testing.T) {
	g, err := Tree(NewEmojiPool(), 3, 2, geom.DefaultShape())
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", g.Len())
	}
	// Pre-order numbering: 0 root, 1 and 4 children, 2 3 5 6 leaves.
	if g.EdgeCount() != 12 {
		t.Errorf("EdgeCount() = %d, want 12", g.EdgeCount())
	}
	for _, pair := range [][2]int{{0, 1}, {0, 4}, {1, 2}, {1, 3}, {4, 5}, {4, 6}} {
		if !g.HasEdge(pair[0], pair[1]) || !g.HasEdge(pair[1], pair[0]) {
			t.Errorf("expected bidirectional edge %v", pair)
		}
	}
	if g.Adjacent(2, 3) || g.Adjacent(1, 4) {
		t.Error("siblings should not be adjacent")
	}
	for i := range g.Len() {
		if g.Shape(i) != geom.DefaultShape() {
			t.Errorf("node %d shape = %v", i, g.Shape(i))
		}
	}
}

func TestTreePoolExhausted(t *testing.T) {
	pool := NewLabelPool([]string{"a", "b", "c"})
	_, err := Tree(pool, 2, 3, geom.DefaultShape())
	if !errors.Is(err, errors.ErrCodePoolExhausted) {
		t.Fatalf("Tree() error = %v, want POOL_EXHAUSTED", err)
	}
	if pool.Remaining() != 3 {
		t.Errorf("pool consumed on failure: Remaining() = %d", pool.Remaining())
	}
}

func TestTreeInvalidInput(t *testing.T) {
	tests := []struct {
		name            string
		depth, branches int
	}{
		{"ZeroDepth", 0, 2},
		{"NegativeBranches", 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tree(NewEmojiPool(), tt.depth, tt.branches, geom.DefaultShape())
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Tree() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
