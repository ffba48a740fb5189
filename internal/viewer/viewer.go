// Package viewer shows a live layout in a desktop window.
//
// Ebitengine calls Update and Draw on its own loop. Update ticks the
// scheduler and retargets the node animation whenever a newer frame has
// been published; Draw only reads animated positions. Neither ever waits
// for the solver.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/matzehuels/forcegraph/internal/viewer/motion"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// Defaults.
const (
	DefaultWidth  = 960
	DefaultHeight = 720
	DefaultTween  = 120 * time.Millisecond
	margin        = 40.0
	maxZoom       = 4.0
)

// Options configures the window.
type Options struct {
	Width, Height int
	Title         string
	// Tween is how long nodes take to glide to a newly published frame.
	Tween  time.Duration
	Fill   color.Color
	Stroke color.Color
	// HideLabels skips label drawing.
	HideLabels bool
	Logger     *log.Logger
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = "forcegraph"
	}
	if o.Tween < 0 {
		o.Tween = 0
	} else if o.Tween == 0 {
		o.Tween = DefaultTween
	}
	if o.Fill == nil {
		o.Fill = color.RGBA{0xff, 0x69, 0xb4, 0xff}
	}
	if o.Stroke == nil {
		o.Stroke = o.Fill
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

var errQuit = errors.New("viewer closed")

// Game implements ebiten.Game for a scheduler.
type Game struct {
	ctx    context.Context
	sched  *scheduler.Scheduler
	opts   Options
	logger *log.Logger

	g      *graph.Graph
	edges  []graph.Edge
	motion *motion.Motion
	seq    uint64
	paused bool
}

// New creates a game showing sched's frames.
func New(ctx context.Context, sched *scheduler.Scheduler, opts Options) *Game {
	opts.setDefaults()
	f := sched.Latest()
	g := f.Snapshot.Graph()
	return &Game{
		ctx:    ctx,
		sched:  sched,
		opts:   opts,
		logger: opts.Logger,
		g:      g,
		edges:  g.Edges(),
		motion: motion.New(f.Snapshot.Positions(), float32(opts.Tween.Seconds())),
		seq:    f.Seq,
	}
}

// Run opens the window and blocks until it is closed or ctx ends.
func Run(ctx context.Context, sched *scheduler.Scheduler, opts Options) error {
	game := New(ctx, sched, opts)
	ebiten.SetWindowSize(game.opts.Width, game.opts.Height)
	ebiten.SetWindowTitle(game.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// Update handles input, ticks the scheduler and advances the animation.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if _, err := g.sched.Reseed(g.ctx, layout.NewSnapshot(g.g, nil)); err != nil {
			g.logger.Warn("reseed failed", "error", err)
		}
	}

	if !g.paused {
		g.sched.Tick(g.ctx)
	}
	if f := g.sched.Latest(); f.Seq != g.seq {
		g.seq = f.Seq
		g.motion.Retarget(f.Snapshot.Positions())
	}
	g.motion.Step(float32(1 / float64(ebiten.TPS())))
	return nil
}

// Draw renders the animated positions fitted to the window.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.White)

	pos := g.motion.Positions()
	bounds, ok := g.bounds(pos)
	if !ok {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	tr := motion.Fit(bounds, float64(w), float64(h), margin, maxZoom)

	for _, e := range g.edges {
		a, b := tr.Apply(pos[e.From]), tr.Apply(pos[e.To])
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1.5, g.opts.Stroke, true)
	}
	for i, p := range pos {
		c := tr.Apply(p)
		g.drawShape(screen, c, g.g.Shape(i), tr.Scale)
		if !g.opts.HideLabels {
			ebitenutil.DebugPrintAt(screen, g.g.Label(i), int(c.X)+4, int(c.Y)-8)
		}
	}

	f := g.sched.Latest()
	status := fmt.Sprintf("seq %d  epoch %d  move %.2f  TPS %.0f", f.Seq, f.Epoch, f.Stats.MaxDisplacement, ebiten.ActualTPS())
	if g.paused {
		status += "  [paused]"
	} else if g.sched.Converged() {
		status += "  [converged]"
	}
	ebitenutil.DebugPrintAt(screen, status+"\nspace: pause  r: reseed  esc: quit", 4, 4)
}

// Layout uses the window size as the screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (g *Game) drawShape(screen *ebiten.Image, c geom.Vec, s geom.Shape, scale float64) {
	switch s.Kind {
	case geom.KindRectangle:
		w, h := s.Width*scale, s.Height*scale
		vector.DrawFilledRect(screen, float32(c.X-w/2), float32(c.Y-h/2), float32(w), float32(h), g.opts.Fill, true)
	default:
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(s.Radius*scale), g.opts.Fill, true)
	}
}

// bounds covers every node's shape at its animated position.
func (g *Game) bounds(pos []geom.Vec) (geom.Rect, bool) {
	if len(pos) == 0 {
		return geom.Rect{}, false
	}
	r := g.g.Shape(0).Bounds(pos[0])
	for i := 1; i < len(pos); i++ {
		r = r.Union(g.g.Shape(i).Bounds(pos[i]))
	}
	return r, true
}
