package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// RenderLayout generates output artifacts in the requested formats.
// Formats are rendered concurrently; the first failure cancels the rest.
func RenderLayout(ctx context.Context, f layout.File, opts Options) (map[string][]byte, error) {
	s, err := f.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("restore layout: %w", err)
	}
	return renderFormats(ctx, s, opts.Formats, opts.RenderOptions())
}

func renderFormats(ctx context.Context, s *layout.Snapshot, formats []string, ro render.Options) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := render.Render(gctx, s, format, ro)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
