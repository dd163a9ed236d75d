package layout

// Defaults shared by the algorithms.
const (
	DefaultHorizontalGap = 100.0
	DefaultVerticalGap   = 60.0
	DefaultBaseRadius    = 160.0
	DefaultDepthGap      = 140.0
	DefaultMinAngleGap   = 12.0
)

// Orientation selects the angle range used by [Radial].
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
	OrientationRadial     Orientation = "radial"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	switch o {
	case OrientationHorizontal, OrientationVertical, OrientationRadial:
		return true
	}
	return false
}

// AngleRange returns the start and end angle in degrees. Unknown values
// fall back to the full circle.
func (o Orientation) AngleRange() (start, end float64) {
	switch o {
	case OrientationHorizontal:
		return -90, 90
	case OrientationVertical:
		return 0, 180
	default:
		return 0, 360
	}
}

// ScopeKind tells whether a recompute covers the whole map or one subtree.
type ScopeKind string

const (
	ScopeAll     ScopeKind = "all"
	ScopeSubtree ScopeKind = "subtree"
)

// Scope is the part of the map a layout recompute may touch.
type Scope struct {
	Kind   ScopeKind `json:"scope"`
	RootID string    `json:"rootId,omitempty"`
}

// All returns the scope covering every node.
func All() Scope { return Scope{Kind: ScopeAll} }

// Subtree returns the scope covering the strict descendants of rootID.
func Subtree(rootID string) Scope { return Scope{Kind: ScopeSubtree, RootID: rootID} }

// IsSubtree reports whether the scope is limited to a subtree. A subtree
// scope without a root id covers the whole map.
func (s Scope) IsSubtree() bool { return s.Kind == ScopeSubtree && s.RootID != "" }

// Option configures a layout computation.
type Option func(*config)

type config struct {
	hGap, vGap  float64
	base, depth float64
	minAngle    float64
	orientation Orientation
	scope       Scope
}

func newConfig(opts []Option) config {
	c := config{
		hGap:        DefaultHorizontalGap,
		vGap:        DefaultVerticalGap,
		base:        DefaultBaseRadius,
		depth:       DefaultDepthGap,
		minAngle:    DefaultMinAngleGap,
		orientation: OrientationRadial,
		scope:       All(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithGaps sets the parent-to-child horizontal offset and the vertical gap
// between siblings used by [CenterRoot]. Negative values are ignored.
func WithGaps(horizontal, vertical float64) Option {
	return func(c *config) {
		if horizontal >= 0 {
			c.hGap = horizontal
		}
		if vertical >= 0 {
			c.vGap = vertical
		}
	}
}

// WithRadii sets the depth-1 radius and the radius added per extra depth
// used by [Radial]. Non-positive values are ignored.
func WithRadii(base, depthGap float64) Option {
	return func(c *config) {
		if base > 0 {
			c.base = base
		}
		if depthGap > 0 {
			c.depth = depthGap
		}
	}
}

// WithMinAngleGap sets the smallest sector, in degrees, given to a child.
func WithMinAngleGap(degrees float64) Option {
	return func(c *config) {
		if degrees >= 0 {
			c.minAngle = degrees
		}
	}
}

// WithOrientation sets the angle range used by [Radial].
func WithOrientation(o Orientation) Option {
	return func(c *config) { c.orientation = o }
}

// WithScope limits the recompute to part of the map.
func WithScope(s Scope) Option {
	return func(c *config) { c.scope = s }
}
