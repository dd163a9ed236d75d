package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kknero/neromind/pkg/editor"
	"github.com/kknero/neromind/pkg/layout"
	"github.com/kknero/neromind/pkg/mapfile"
	"github.com/kknero/neromind/pkg/settings"
	"github.com/kknero/neromind/pkg/textlayout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "neromind"

	// defaultWidth and defaultHeight size the canvas for batch layout.
	defaultWidth  = 800
	defaultHeight = 600
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	measurer   textlayout.Measurer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		measurer: textlayout.Measurer{FontSize: textlayout.DefaultFontSize},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Settings
// =============================================================================

// loadSettings reads the config file named by --config, or the default
// config path. A missing file yields the defaults.
func (c *CLI) loadSettings() (settings.Settings, error) {
	path := c.configPath
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			c.Logger.Debug("no config path, using defaults", "err", err)
			return settings.Default(), nil
		}
		path = p
	}
	s, err := settings.Load(path)
	if err != nil {
		return s, err
	}
	c.Logger.Debug("settings loaded", "path", path, "radial", s.EnableRadialLayout, "direction", s.LayoutDirection)
	return s, nil
}

// =============================================================================
// Editor Factory
// =============================================================================

// newEditor creates an editor with the loaded settings and the CLI logger.
func (c *CLI) newEditor(s settings.Settings, vp layout.Viewport, opts ...editor.Option) *editor.Editor {
	base := []editor.Option{
		editor.WithSettings(s),
		editor.WithViewport(vp),
		editor.WithLogger(c.Logger),
	}
	return editor.New(append(base, opts...)...)
}

// openMap reads a map file and loads it into a fresh editor. Dropped edges
// are logged as warnings.
func (c *CLI) openMap(path string, s settings.Settings, vp layout.Viewport, opts ...editor.Option) (*editor.Editor, *mapfile.Document, error) {
	doc, warnings, err := mapfile.Import(path)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		c.Logger.Warn("dropped edge", "file", path, "detail", w.String())
	}

	e := c.newEditor(s, vp, opts...)
	if err := mapfile.Load(doc, e.Store()); err != nil {
		e.Close()
		return nil, nil, err
	}
	c.Logger.Debug("map loaded", "file", path, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return e, doc, nil
}

// saveMap writes the editor's current state to path, keeping the map's
// original creation time when doc is non-nil.
func saveMap(e *editor.Editor, doc *mapfile.Document, path string) error {
	var created time.Time
	if doc != nil && doc.Meta.CreatedAt > 0 {
		created = time.UnixMilli(doc.Meta.CreatedAt)
	}
	return mapfile.Export(mapfile.FromSnapshot(e.Snapshot(), created, time.Now()), path)
}

func viewport(width, height float64) layout.Viewport {
	return layout.Viewport{Width: width, Height: height}
}
