package cli

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/viewer"
	"github.com/matzehuels/forcegraph/pkg/errors"
)

// viewCommand creates the view command, a desktop window on a live layout.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags      liveFlags
		opts       viewer.Options
		fill       string
		hideLabels bool
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Open a window on a live layout",
		Long: `Open a window on a live layout.

The window ticks the solver every frame and animates nodes towards each
newly published layout. Keys:

  space   pause or resume the solver
  r       reseed with random start positions
  q, esc  close the window

Without a graph argument a tree is generated from --depth and --branches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fill") {
				fill = c.Config.Render.Fill
			}
			clr, err := parseHexColor(fill)
			if err != nil {
				return err
			}
			opts.Fill = clr
			opts.HideLabels = hideLabels
			opts.Logger = c.Logger

			sched, _, err := c.newScheduler(cmd, args, &flags)
			if err != nil {
				return err
			}
			defer func() {
				sched.Close()
				sched.Wait()
			}()
			return viewer.Run(cmd.Context(), sched, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&opts.Width, "window-width", viewer.DefaultWidth, "window width")
	cmd.Flags().IntVar(&opts.Height, "window-height", viewer.DefaultHeight, "window height")
	cmd.Flags().DurationVar(&opts.Tween, "tween", viewer.DefaultTween, "animation time between frames (negative disables)")
	cmd.Flags().StringVar(&fill, "fill", "", "node and edge color (default from config)")
	cmd.Flags().BoolVar(&hideLabels, "hide-labels", false, "omit node labels")

	return cmd
}

// parseHexColor parses "#rrggbb" or "#rgb".
func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	var r, g, b uint8
	if len(hex) != 6 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid color %q", s)
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
