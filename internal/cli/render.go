package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kknero/neromind/pkg/cache"
	"github.com/kknero/neromind/pkg/render/dot"
	"github.com/kknero/neromind/pkg/schedule"
)

// Output formats supported by the render command.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
	formatDOT = "dot"
)

var validFormats = []string{formatSVG, formatPNG, formatPDF, formatDOT}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string   // output file path (or base path for multiple outputs)
	formats       []string // output formats: "svg", "png", "pdf", "dot"
	relayout      bool     // recompute positions before drawing
	algorithm     string   // layout algorithm override for --relayout
	detailed      bool     // add node ids and directions to labels
	hideCollapsed bool     // omit descendants of collapsed nodes
	wrap          float64  // label wrap width in canvas units
	scale         float64  // PNG scale factor
	noCache       bool     // always render, never reuse cached artifacts
}

// renderCommand creates the render command for drawing maps.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{wrap: 160, scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [file.kknm]",
		Short: "Render a map to SVG, PNG, PDF or DOT",
		Long: `Render a map to SVG, PNG, PDF or DOT.

Nodes are drawn at their stored positions using the Graphviz neato engine.
PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats: svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.relayout, "relayout", false, "recompute positions before drawing")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "layout algorithm for --relayout: radial, center")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and directions")
	cmd.Flags().BoolVar(&opts.hideCollapsed, "hide-collapsed", false, "omit children of collapsed nodes")
	cmd.Flags().Float64Var(&opts.wrap, "wrap", opts.wrap, "wrap labels at this width (0 disables)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("invalid format %q (want one of %s)", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	s, err := c.loadSettings()
	if err != nil {
		return err
	}
	if s, err = applyLayoutFlags(s, opts.algorithm, ""); err != nil {
		return err
	}

	e, _, err := c.openMap(input, s, viewport(defaultWidth, defaultHeight))
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}
	defer e.Close()

	if opts.relayout {
		e.Relayout(schedule.Request{All: true})
	}

	src := dot.ToDOT(e.Snapshot(), dot.Options{
		WrapWidth:     opts.wrap,
		HideCollapsed: opts.hideCollapsed,
		Detailed:      opts.detailed,
		Measurer:      c.measurer,
	})

	artifacts := c.newCache(opts.noCache)
	defer artifacts.Close()

	prog := newProgress(logger)
	var written []string
	cached := 0
	for _, format := range opts.formats {
		data, hit, err := renderCached(ctx, artifacts, src, format, opts.scale)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		if hit {
			cached++
		}
		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %d files, %d from cache", len(written), cached))

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// newCache opens the render cache, falling back to no caching when the
// cache directory is unavailable.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir, cache.WithLogger(c.Logger))
	if err != nil {
		c.Logger.Debug("render cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// renderCached renders src as format, reusing a cached artifact for the
// same source and options. DOT output is never cached.
func renderCached(ctx context.Context, artifacts cache.Cache, src, format string, scale float64) ([]byte, bool, error) {
	if format == formatDOT {
		return []byte(src), false, nil
	}
	key := cache.ArtifactKey(src, format, scale)
	if data, ok, err := artifacts.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, err := renderFormat(src, format, scale)
	if err != nil {
		return nil, false, err
	}
	if err := artifacts.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		loggerFromContext(ctx).Debug("cache write failed", "format", format, "err", err)
	}
	return data, false, nil
}

func renderFormat(src, format string, scale float64) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(src), nil
	case formatPNG:
		return dot.RenderPNG(src, scale)
	case formatPDF:
		return dot.RenderPDF(src)
	default:
		return dot.RenderSVG(src)
	}
}

// outputPath picks the file for one format. An explicit output is used as
// is for a single format and as a base name for several.
func outputPath(input, output, format string, multi bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}
