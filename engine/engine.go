// Package engine defines the control surface of the external video playback
// engine and its mpv JSON-IPC implementation.
//
// The engine is assumed synchronous and not safe for concurrent use: callers
// must serialize every method invocation onto a single goroutine. The player
// package's command funnel provides that serialization.
package engine

// Engine enumerates the operations the external playback engine accepts.
//
// Load-time limitations of the backend leak through this interface on
// purpose: SetHue only takes effect at the next Load, and SetOptions applies
// to whatever is loaded afterwards. Shadowing and replay of such parameters
// is the caller's responsibility.
type Engine interface {
	// IsModuleLoaded reports whether the engine process has come up far
	// enough to accept commands.
	IsModuleLoaded() bool

	// IsInit reports whether the engine answers a status probe.
	IsInit() bool

	Load(path string) error
	SetOptions(options string) error
	SetStretch(stretch bool) error

	Play() error
	Pause() error
	Stop() error
	IsPlaying() (bool, error)

	SetMute(mute bool) error
	IsMute() (bool, error)

	ProgressPercent() (float64, error)
	SetProgressPercent(percent float64) error

	SetRepeat(repeat bool) error

	// SetFadeSpeed sets the backdrop fade duration in seconds.
	SetFadeSpeed(seconds float64) error

	// SetHue takes a hue angle in radians within [-π, π]. It only takes
	// effect at the next Load.
	SetHue(radians float64) error

	SetVisible(visible bool) error
	SetLocation(x, y int) error
	SetSize(width, height int) error

	// Time and Duration report elapsed and total playback time in
	// milliseconds.
	Time() (int64, error)
	Duration() (int64, error)

	// Volume and SetVolume use a normalized 0..1 scale.
	Volume() (float64, error)
	SetVolume(v float64) error
}

// FinishNotifier is implemented by engines that can signal the natural end of
// playback. Engines without a finish signal simply don't implement it, and
// completion callbacks registered by callers are never invoked.
type FinishNotifier interface {
	// NotifyFinish registers a callback fired each time playback reaches
	// the end of the loaded media.
	NotifyFinish(fn func()) error
}
