package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kknero/neromind/pkg/editor"
	"github.com/kknero/neromind/pkg/mapfile"
	"github.com/kknero/neromind/pkg/observability/promhooks"
	"github.com/kknero/neromind/pkg/schedule"
	"github.com/kknero/neromind/pkg/settings"
)

// editOpts holds the command-line flags for the edit command.
type editOpts struct {
	title       string  // root text for a new map
	metricsAddr string  // serve Prometheus metrics here while editing
	logFile     string  // write logs here; the terminal belongs to the editor
	width       float64 // canvas width
	height      float64 // canvas height
}

// editCommand creates the edit command for interactive editing.
func (c *CLI) editCommand() *cobra.Command {
	opts := editOpts{width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "edit [file.kknm]",
		Short: "Edit a map interactively",
		Long: `Edit a map interactively in the terminal.

A missing file starts a new map with a single root node; ctrl+s writes it.
Layout runs in the background after edits settle, exactly as it does in the
graphical editor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", editor.DefaultRootContent, "root text for a new map")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while editing")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, opts editOpts) error {
	s, err := c.loadSettings()
	if err != nil {
		return err
	}

	logger, closeLog, err := c.editLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	if opts.metricsAddr != "" {
		stop := serveMetrics(opts.metricsAddr, logger)
		defer stop()
	}

	var program *tea.Program
	notify := func(req schedule.Request) {
		if program != nil {
			program.Send(layoutMsg(req))
		}
	}
	editorOpts := []editor.Option{editor.WithAsyncLayout(notify), editor.WithLogger(logger)}

	e, doc, err := c.openOrCreate(path, opts, s, editorOpts)
	if err != nil {
		return err
	}
	defer e.Close()

	save := func() error { return saveMap(e, doc, path) }
	program = tea.NewProgram(NewEditModel(e, save), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run editor: %w", err)
	}
	return ctx.Err()
}

// openOrCreate loads path, or starts a new map when it does not exist.
func (c *CLI) openOrCreate(path string, opts editOpts, s settings.Settings, editorOpts []editor.Option) (*editor.Editor, *mapfile.Document, error) {
	vp := viewport(opts.width, opts.height)
	if _, err := os.Stat(path); err == nil {
		e, doc, err := c.openMap(path, s, vp, editorOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("load map %s: %w", path, err)
		}
		return e, doc, nil
	}

	e := c.newEditor(s, vp, editorOpts...)
	if _, _, err := e.Init(opts.title); err != nil {
		e.Close()
		return nil, nil, err
	}
	e.History().Clear()
	return e, nil, nil
}

// editLogger returns a logger that does not write to the terminal.
func (c *CLI) editLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := tea.LogToFile(path, appName)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, c.Logger.GetLevel()), func() { _ = f.Close() }, nil
}

// serveMetrics installs the Prometheus hooks and serves them on addr until
// the returned stop func is called.
func serveMetrics(addr string, logger *log.Logger) (stop func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promhooks.New(reg).Install()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
