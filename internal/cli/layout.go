package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/schedule"
	"github.com/kknero/neromind/pkg/settings"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output    string  // output file (default: <input>.layout.kknm)
	algorithm string  // "radial", "center" or "" for the configured one
	direction string  // angle range for the radial layout
	subtree   string  // recompute only below this node
	reset     bool    // hand every node back to automatic layout first
	width     float64 // canvas width
	height    float64 // canvas height
}

// layoutCommand creates the layout command for recomputing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "layout [file.kknm]",
		Short: "Recompute node positions of a map",
		Long: `Recompute node positions of a map.

The root is placed at the center of the canvas. Nodes moved by hand and
pinned nodes keep their positions unless --reset hands them back to
automatic layout. With --subtree only the descendants of that node move.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.kknm)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "layout algorithm: radial, center (default: from settings)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "radial angle range: radial, horizontal, vertical")
	cmd.Flags().StringVar(&opts.subtree, "subtree", "", "only recompute the subtree below this node id")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "discard manual positions before recomputing")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")

	return cmd
}

// applyLayoutFlags overrides the algorithm selection in s.
func applyLayoutFlags(s settings.Settings, algorithm, direction string) (settings.Settings, error) {
	switch algorithm {
	case "":
	case "radial":
		s.EnableRadialLayout = true
	case "center":
		s.EnableRadialLayout = false
	default:
		return s, fmt.Errorf("unknown layout algorithm %q (want radial or center)", algorithm)
	}
	if direction != "" {
		s.LayoutDirection = layout.Orientation(direction)
	}
	return s, s.Validate()
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)

	s, err := c.loadSettings()
	if err != nil {
		return err
	}
	if s, err = applyLayoutFlags(s, opts.algorithm, opts.direction); err != nil {
		return err
	}

	e, doc, err := c.openMap(input, s, viewport(opts.width, opts.height))
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}
	defer e.Close()

	prog := newProgress(logger)
	if opts.reset {
		ids := make([]string, 0, len(doc.Nodes))
		for _, n := range e.Snapshot().Nodes {
			ids = append(ids, n.ID)
		}
		if _, err := e.ResetToAuto(ids...); err != nil {
			return fmt.Errorf("reset positions: %w", err)
		}
	}

	req := schedule.Request{All: true}
	if opts.subtree != "" {
		if _, ok := e.Store().Node(opts.subtree); !ok {
			return fmt.Errorf("node %q not found in %s", opts.subtree, input)
		}
		req = schedule.Request{RootIDs: []string{opts.subtree}}
	}
	e.Relayout(req)
	prog.done(fmt.Sprintf("Laid out %d nodes", e.Store().NodeCount()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.kknm"
	}
	if err := saveMap(e, doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	snap := e.Snapshot()
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(snap.Nodes), len(snap.Edges), len(snap.PinnedNodeIDs))
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)
	return nil
}
