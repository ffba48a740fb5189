package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// watchCommand creates the watch command, a terminal view of a live layout.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags  liveFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Watch a layout relax in the terminal",
		Long: `Watch a layout relax in the terminal.

The solver runs in the background, one batch of --passes passes per tick,
and every published frame is plotted along with the scheduler counters.
Ticks that arrive while a batch is still running are dropped.

Without a graph argument a tree is generated from --depth and --branches.
With -o the last frame is written as a layout.json on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, g, err := c.newScheduler(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), newConsole(cmd), sched, g, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the last frame to this layout.json on exit")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, out console, sched *scheduler.Scheduler, g *graph.Graph, output string) error {
	defer func() {
		sched.Close()
		sched.Wait()
	}()

	p := tea.NewProgram(NewWatchModel(ctx, sched, g), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	m := final.(WatchModel)
	if m.Frame == nil {
		return nil
	}
	out.frame(m.Frame)
	if output == "" {
		return nil
	}
	if err := writeFrame(sched, m.Frame, output); err != nil {
		return err
	}
	out.file(output)
	return nil
}

// writeFrame exports a published frame as a layout file.
func writeFrame(sched *scheduler.Scheduler, f *scheduler.Frame, path string) error {
	opts := sched.Options()
	file := layout.Export(f.Snapshot, opts.Params, opts.Seed, f.Stats)
	return layout.WriteFile(file, path)
}
