// Package settings holds the user-facing editor settings and their TOML
// configuration file.
//
// Settings live outside the undoable graph state. Layout changes reach the
// editor as [LayoutPatch] values carried by the layoutSettingsChanged
// event, so an undone layout change restores the previous [Layout] without
// the state store ever holding settings of its own.
package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kknero/neromind/pkg/errors"
	"github.com/kknero/neromind/pkg/layout"
)

const appName = "neromind"

// DefaultLayoutDebounce is the delay used to merge bursts of layout requests.
const DefaultLayoutDebounce = 140 * time.Millisecond

// Settings is the full editor configuration.
type Settings struct {
	EnableRadialLayout bool               `toml:"enable_radial_layout"`
	LayoutDirection    layout.Orientation `toml:"layout_direction"`
	AutoAlign          bool               `toml:"auto_align"`
	CenterOnCreate     bool               `toml:"center_on_create"`
	Minimap            Minimap            `toml:"minimap"`
	NodeGap            NodeGap            `toml:"node_gap"`
	Radial             Radial             `toml:"radial"`
	LayoutDebounce     Duration           `toml:"layout_debounce"`
}

// Minimap configures the overview panel.
type Minimap struct {
	Enabled bool    `toml:"enabled"`
	Size    string  `toml:"size"`
	Opacity float64 `toml:"opacity"`
}

// NodeGap configures spacing for the centered layout.
type NodeGap struct {
	Horizontal float64 `toml:"horizontal"`
	Vertical   float64 `toml:"vertical"`
}

// Radial configures ring spacing for the radial layout.
type Radial struct {
	BaseRadius  float64 `toml:"base_radius"`
	DepthGap    float64 `toml:"depth_gap"`
	MinAngleGap float64 `toml:"min_angle_gap"`
}

// Minimap sizes.
const (
	MinimapSmall  = "small"
	MinimapMedium = "medium"
	MinimapLarge  = "large"
)

// Default returns the settings used when no configuration file exists.
func Default() Settings {
	return Settings{
		EnableRadialLayout: true,
		LayoutDirection:    layout.OrientationRadial,
		AutoAlign:          true,
		CenterOnCreate:     false,
		Minimap: Minimap{
			Enabled: true,
			Size:    MinimapSmall,
			Opacity: 0.8,
		},
		NodeGap: NodeGap{
			Horizontal: layout.DefaultHorizontalGap,
			Vertical:   layout.DefaultVerticalGap,
		},
		Radial: Radial{
			BaseRadius:  layout.DefaultBaseRadius,
			DepthGap:    layout.DefaultDepthGap,
			MinAngleGap: layout.DefaultMinAngleGap,
		},
		LayoutDebounce: Duration(DefaultLayoutDebounce),
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if !s.LayoutDirection.Valid() {
		return errors.New(errors.ErrCodeInvalidSettings, "layout_direction must be horizontal, vertical or radial, got %q", s.LayoutDirection)
	}
	switch s.Minimap.Size {
	case MinimapSmall, MinimapMedium, MinimapLarge:
	default:
		return errors.New(errors.ErrCodeInvalidSettings, "minimap.size must be small, medium or large, got %q", s.Minimap.Size)
	}
	if s.Minimap.Opacity < 0 || s.Minimap.Opacity > 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "minimap.opacity must be within [0, 1], got %v", s.Minimap.Opacity)
	}
	if s.NodeGap.Horizontal < 0 || s.NodeGap.Vertical < 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "node_gap values must not be negative")
	}
	if s.Radial.BaseRadius <= 0 || s.Radial.DepthGap <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "radial radii must be positive")
	}
	if s.Radial.MinAngleGap < 0 || s.Radial.MinAngleGap > 360 {
		return errors.New(errors.ErrCodeInvalidSettings, "radial.min_angle_gap must be within [0, 360], got %v", s.Radial.MinAngleGap)
	}
	if s.LayoutDebounce < 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "layout_debounce must not be negative")
	}
	return nil
}

// =============================================================================
// Layout Fields
// =============================================================================

// Layout is the subset of settings that selects the layout algorithm.
type Layout struct {
	EnableRadialLayout bool               `json:"enableRadialLayout"`
	LayoutDirection    layout.Orientation `json:"layoutDirection"`
}

// LayoutPatch is a partial update of [Layout]. Nil fields are left alone.
type LayoutPatch struct {
	EnableRadialLayout *bool
	LayoutDirection    *layout.Orientation
}

// Layout returns the layout fields of s.
func (s Settings) Layout() Layout {
	return Layout{
		EnableRadialLayout: s.EnableRadialLayout,
		LayoutDirection:    s.LayoutDirection,
	}
}

// WithLayout returns a copy of s with the layout fields replaced.
func (s Settings) WithLayout(l Layout) Settings {
	s.EnableRadialLayout = l.EnableRadialLayout
	s.LayoutDirection = l.LayoutDirection
	return s
}

// Apply returns a copy of s with the non-nil patch fields merged in.
func (s Settings) Apply(p LayoutPatch) Settings {
	if p.EnableRadialLayout != nil {
		s.EnableRadialLayout = *p.EnableRadialLayout
	}
	if p.LayoutDirection != nil {
		s.LayoutDirection = *p.LayoutDirection
	}
	return s
}

// LayoutOptions converts the spacing settings into layout options.
func (s Settings) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithGaps(s.NodeGap.Horizontal, s.NodeGap.Vertical),
		layout.WithRadii(s.Radial.BaseRadius, s.Radial.DepthGap),
		layout.WithMinAngleGap(s.Radial.MinAngleGap),
		layout.WithOrientation(s.LayoutDirection),
	}
}

// =============================================================================
// Duration
// =============================================================================

// Duration is a time.Duration that reads and writes as a string such as
// "140ms" in TOML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse duration %q", string(b))
	}
	*d = Duration(v)
	return nil
}

// =============================================================================
// Config File
// =============================================================================

// DefaultPath returns the configuration file path following the XDG
// convention (~/.config/neromind/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads settings from path. Fields missing from the file keep their
// default values. A missing file yields [Default] without error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeStorage, err, "read settings")
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse %s", path)
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Save writes s to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create config dir")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write settings")
	}
	return nil
}
