package player

// HostWindow is the window whose position and size the backdrop shadows,
// typically the projection window of the presentation application.
//
// The host owns its geometry: Showing, X, Y, Width and Height must only be
// called from inside the function passed to RunAndWait, which executes on
// the host's own execution context and blocks until the read completes.
// This keeps geometry reads from racing host-side layout changes.
type HostWindow interface {
	RunAndWait(fn func())
	Showing() bool
	X() int
	Y() int
	Width() int
	Height() int
}

// FixedHost is a HostWindow with static geometry, for callers that don't
// track a live window: command-line playback and tests.
type FixedHost struct {
	Visible    bool
	PosX, PosY int
	W, H       int
}

// NewFixedHost returns a visible FixedHost covering the given rectangle.
func NewFixedHost(x, y, width, height int) *FixedHost {
	return &FixedHost{
		Visible: true,
		PosX:    x,
		PosY:    y,
		W:       width,
		H:       height,
	}
}

// RunAndWait executes fn inline: a fixed host has no layout thread to defer to.
func (h *FixedHost) RunAndWait(fn func()) { fn() }

func (h *FixedHost) Showing() bool { return h.Visible }
func (h *FixedHost) X() int        { return h.PosX }
func (h *FixedHost) Y() int        { return h.PosY }
func (h *FixedHost) Width() int    { return h.W }
func (h *FixedHost) Height() int   { return h.H }
