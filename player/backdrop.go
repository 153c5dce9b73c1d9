// Package player implements the control facade over the external video
// playback engine that renders the presentation backdrop.
//
// The facade shadows state the engine can only accept at load time (hue,
// options, stretch) so it can be re-applied by replaying the last load, and
// serializes every engine interaction through a single-worker command funnel.
package player

import (
	"math"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/engine"
	"github.com/stagecast-av/stagecast/key"
	"github.com/stagecast-av/stagecast/log"
)

// Startup probe calibration. The engine gets one bounded chance to come up;
// after that the backdrop stays permanently inert.
var (
	startupProbeInterval = 50 * time.Millisecond
	startupTimeout       = 10 * time.Second
)

// Backdrop is the process-wide handle for the background video surface.
// Create exactly one with New and pass it to every call site that needs
// player control.
//
// All methods are safe for concurrent use. Query methods block until the
// engine startup probe has finished and any previously submitted commands
// have run; they must not be called from inside a completion callback.
type Backdrop struct {
	eng  engine.Engine
	host HostWindow
	run  *funnel

	// Shadow state, owned by the funnel worker: only touched inside
	// submitted units.
	init        bool
	paused      bool
	shown       bool
	hideButton  bool
	hue         float64
	lastPath    string
	lastOptions string
	lastStretch bool
	location    mo.Option[string]
}

// New creates the backdrop handle and starts probing the engine for
// readiness in the background. Commands submitted before the probe finishes
// queue up behind it; they become no-ops if the engine never comes up.
func New(eng engine.Engine, host HostWindow) *Backdrop {
	b := &Backdrop{
		eng:      eng,
		host:     host,
		run:      newFunnel(),
		location: mo.None[string](),
	}
	b.run.submit(b.probeStartup)
	return b
}

// probeStartup runs on the funnel worker as its first unit. It polls the
// engine's module-loaded probe until it reports ready or the budget runs out.
func (b *Backdrop) probeStartup() {
	remaining := startupTimeout
	for !b.eng.IsModuleLoaded() && remaining > 0 {
		time.Sleep(startupProbeInterval)
		remaining -= startupProbeInterval
	}

	if remaining <= 0 {
		log.Warnf("couldn't initialise the video backdrop, engine startup timed out after %s", startupTimeout)
		return
	}

	b.init = b.eng.IsInit()
	log.Infof("video backdrop initialised ok")
}

// IsInit reports whether the engine initialised correctly. It blocks until
// the startup probe has completed, so callers never race it.
func (b *Backdrop) IsInit() bool {
	var init bool
	b.run.submitWait(func() { init = b.init })
	return init
}

// SetRepeat sets whether the loaded video should repeat.
func (b *Backdrop) SetRepeat(repeat bool) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		if err := b.eng.SetRepeat(repeat); err != nil {
			log.Warnf("set repeat: %v", err)
		}
	})
}

// Load loads a video into the engine without starting playback.
// Options are only applied when non-empty.
func (b *Backdrop) Load(path, options string, stretch bool) {
	b.run.submit(func() { b.load(path, options, stretch) })
}

// load runs on the funnel worker.
func (b *Backdrop) load(path, options string, stretch bool) {
	if !b.init {
		return
	}
	b.paused = false

	sanitized := sanitizePath(path)

	if playing, err := b.eng.IsPlaying(); err == nil && playing {
		if err := b.eng.Stop(); err != nil {
			log.Warnf("stop before load: %v", err)
		}
	}
	if options != "" {
		if err := b.eng.SetOptions(options); err != nil {
			log.Warnf("set options: %v", err)
		}
	}
	if err := b.eng.SetStretch(stretch); err != nil {
		log.Warnf("set stretch: %v", err)
	}

	if err := b.eng.Load(sanitized); err != nil {
		log.Warnf("load %s: %v", sanitized, err)
		return
	}

	// Shadow only reflects loads the engine accepted, so a hue replay
	// always reissues the last applied load.
	b.lastPath = sanitized
	b.lastOptions = options
	b.lastStretch = stretch
}

// Play starts playback of the currently loaded video.
func (b *Backdrop) Play() {
	b.run.submit(func() {
		if !b.init {
			return
		}
		b.applyFadeSpeed()
		b.paused = false
		if err := b.eng.Play(); err != nil {
			log.Warnf("play: %v", err)
		}
	})
}

// PlayFile loads the given video and starts playing it in one step.
// This is the only entry point that records the current location.
func (b *Backdrop) PlayFile(path, options string, stretch bool) {
	b.run.submit(func() {
		b.location = mo.Some(path)
		b.playFile(path, options, stretch)
	})
}

// playFile runs on the funnel worker.
func (b *Backdrop) playFile(path, options string, stretch bool) {
	if !b.init {
		return
	}
	b.paused = false

	if playing, err := b.eng.IsPlaying(); err == nil && playing {
		if err := b.eng.Stop(); err != nil {
			log.Warnf("stop before play: %v", err)
		}
	}
	if options != "" {
		if err := b.eng.SetOptions(options); err != nil {
			log.Warnf("set options: %v", err)
		}
	}
	if err := b.eng.SetStretch(stretch); err != nil {
		log.Warnf("set stretch: %v", err)
	}

	if err := b.eng.Load(path); err != nil {
		log.Warnf("load %s: %v", path, err)
		return
	}
	b.lastPath = path
	b.lastOptions = options
	b.lastStretch = stretch

	b.applyFadeSpeed()
	if err := b.eng.Play(); err != nil {
		log.Warnf("play: %v", err)
	}
}

// applyFadeSpeed runs on the funnel worker. The configured fade duration is
// in milliseconds; the engine expects seconds.
func (b *Backdrop) applyFadeSpeed() {
	fade := float64(viper.GetInt(key.PlayerFadeDuration)) / 1000
	if err := b.eng.SetFadeSpeed(fade); err != nil {
		log.Warnf("set fade speed: %v", err)
	}
}

// LastLocation returns the last path requested through PlayFile, or the
// empty string when nothing has been requested since the last Stop.
func (b *Backdrop) LastLocation() string {
	var location string
	b.run.submitWait(func() { location = b.location.OrElse("") })
	return location
}

// Pause pauses the currently playing video.
func (b *Backdrop) Pause() {
	b.run.submit(func() {
		if !b.init {
			return
		}
		b.paused = true
		if err := b.eng.Pause(); err != nil {
			log.Warnf("pause: %v", err)
		}
	})
}

// Stop stops the currently playing video and clears the current location.
func (b *Backdrop) Stop() {
	b.run.submit(func() {
		b.location = mo.None[string]()
		if !b.init {
			return
		}
		b.paused = false
		if err := b.eng.Stop(); err != nil {
			log.Warnf("stop: %v", err)
		}
	})
}

// IsMute reports whether the engine is muted. Best effort: defaults to
// false when the engine can't answer.
func (b *Backdrop) IsMute() bool {
	var mute bool
	b.run.submitWait(func() {
		if !b.init {
			return
		}
		m, err := b.eng.IsMute()
		if err != nil {
			log.Infof("couldn't query mute state: %v", err)
			return
		}
		mute = m
	})
	return mute
}

// SetMute sets the mute state for playback.
func (b *Backdrop) SetMute(mute bool) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		if err := b.eng.SetMute(mute); err != nil {
			log.Warnf("set mute: %v", err)
		}
	})
}

// ProgressPercent returns playback progress on a 0.0 to 1.0 scale.
func (b *Backdrop) ProgressPercent() float64 {
	var progress float64
	b.run.submitWait(func() {
		if !b.init {
			return
		}
		p, err := b.eng.ProgressPercent()
		if err != nil {
			log.Infof("couldn't query progress: %v", err)
			return
		}
		progress = p
	})
	return progress
}

// SetProgressPercent seeks to a position on a 0.0 to 1.0 scale.
func (b *Backdrop) SetProgressPercent(percent float64) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		if err := b.eng.SetProgressPercent(percent); err != nil {
			log.Warnf("set progress: %v", err)
		}
	})
}

// IsPlaying reports whether a video is actively playing.
func (b *Backdrop) IsPlaying() bool {
	var playing bool
	b.run.submitWait(func() {
		if !b.init {
			return
		}
		p, err := b.eng.IsPlaying()
		if err != nil {
			log.Infof("couldn't query playing state: %v", err)
			return
		}
		playing = p
	})
	return playing
}

// IsPaused reports whether playback is paused.
func (b *Backdrop) IsPaused() bool {
	var paused bool
	b.run.submitWait(func() {
		if b.init {
			paused = b.paused
		}
	})
	return paused
}

// SetOnFinished registers a callback invoked when playback reaches the end
// of the loaded video. Engines without a finish signal accept the callback
// but never invoke it.
func (b *Backdrop) SetOnFinished(onFinished func()) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		notifier, ok := b.eng.(engine.FinishNotifier)
		if !ok {
			return
		}
		if err := notifier.NotifyFinish(onFinished); err != nil {
			log.Warnf("wire finish callback: %v", err)
		}
	})
}

// Show marks the backdrop as shown and pushes the derived visibility.
func (b *Backdrop) Show() {
	b.run.submit(func() {
		if !b.init {
			return
		}
		b.shown = true
		b.pushVisibility()
	})
}

// Hide marks the backdrop as hidden and pushes the derived visibility.
func (b *Backdrop) Hide() {
	b.run.submit(func() {
		if !b.init {
			return
		}
		b.shown = false
		b.pushVisibility()
	})
}

// SetHideButton sets the hide-button override. While active it forces the
// backdrop invisible regardless of the shown flag.
func (b *Backdrop) SetHideButton(hide bool) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		b.hideButton = hide
		b.pushVisibility()
	})
}

// pushVisibility runs on the funnel worker. Visibility is always derived
// from the two flags, never set directly, and the push happens even when
// the derived value did not change: it is idempotent and cheap.
func (b *Backdrop) pushVisibility() {
	visible := b.shown && !b.hideButton
	if err := b.eng.SetVisible(visible); err != nil {
		log.Warnf("set visible: %v", err)
	}
}

// SetLocation moves the backdrop window.
func (b *Backdrop) SetLocation(x, y int) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		if err := b.eng.SetLocation(x, y); err != nil {
			log.Warnf("set location: %v", err)
		}
	})
}

// SetSize resizes the backdrop window.
func (b *Backdrop) SetSize(width, height int) {
	b.run.submit(func() {
		if !b.init {
			return
		}
		if err := b.eng.SetSize(width, height); err != nil {
			log.Warnf("set size: %v", err)
		}
	})
}

// RefreshPosition synchronizes the backdrop window with the host window.
// Geometry is read on the host's own execution context before the update is
// funneled, since the two contexts may be different threads.
func (b *Backdrop) RefreshPosition() {
	var showing bool
	var x, y, width, height int

	b.host.RunAndWait(func() {
		showing = b.host.Showing()
		if showing {
			x, y = b.host.X(), b.host.Y()
			width, height = b.host.Width(), b.host.Height()
		}
	})

	b.run.submit(func() {
		if !b.init {
			return
		}
		if showing {
			b.shown = true
			b.pushVisibility()
			if err := b.eng.SetLocation(x, y); err != nil {
				log.Warnf("set location: %v", err)
			}
			if err := b.eng.SetSize(width, height); err != nil {
				log.Warnf("set size: %v", err)
			}
		} else {
			b.shown = false
			b.pushVisibility()
		}
	})
}

// FadeHue sets a new hue and replays the last applied load. The engine only
// picks up hue at load time, so an already-playing video visibly restarts;
// that is a backend limitation, not a bug.
func (b *Backdrop) FadeHue(hue float64) {
	b.run.submit(func() {
		b.applyHue(hue)
		if !b.init {
			return
		}
		b.location = mo.Some(b.lastPath)
		b.playFile(b.lastPath, b.lastOptions, b.lastStretch)
	})
}

// SetHue sets the hue of the video. Takes effect at the next load.
func (b *Backdrop) SetHue(hue float64) {
	b.run.submit(func() { b.applyHue(hue) })
}

// applyHue runs on the funnel worker. The shadow always reflects the last
// requested hue, whether or not the engine accepted it.
func (b *Backdrop) applyHue(hue float64) {
	b.hue = hue
	if !b.init {
		return
	}
	if err := b.eng.SetHue(hueToRadians(hue)); err != nil {
		log.Warnf("set hue: %v", err)
	}
}

// Hue returns the last hue requested by a caller.
func (b *Backdrop) Hue() float64 {
	var hue float64
	b.run.submitWait(func() { hue = b.hue })
	return hue
}

// Time returns the elapsed playback time in milliseconds. Best effort:
// returns 0 when the engine can't answer.
func (b *Backdrop) Time() int64 {
	var t int64
	b.run.submitWait(func() {
		v, err := b.eng.Time()
		if err != nil {
			log.Infof("couldn't get the current time: %v", err)
			return
		}
		if v > 0 {
			t = v
		}
	})
	return t
}

// Total returns the total duration in milliseconds. Best effort: returns 0
// when the engine can't answer.
func (b *Backdrop) Total() int64 {
	var t int64
	b.run.submitWait(func() {
		v, err := b.eng.Duration()
		if err != nil {
			log.Infof("couldn't get the total time: %v", err)
			return
		}
		if v > 0 {
			t = v
		}
	})
	return t
}

// Volume returns the current volume from 0 to 100. Best effort: returns 100
// when the engine can't answer.
func (b *Backdrop) Volume() int {
	volume := 100
	b.run.submitWait(func() {
		v, err := b.eng.Volume()
		if err != nil {
			log.Infof("couldn't get volume level: %v", err)
			return
		}
		volume = int(v * 100)
	})
	return volume
}

// SetVolume sets the volume from 0 to 100.
func (b *Backdrop) SetVolume(volume int) {
	b.run.submit(func() {
		if err := b.eng.SetVolume(float64(volume) / 100); err != nil {
			log.Infof("couldn't set volume level: %v", err)
		}
	})
}

// Close drains pending commands and stops the funnel worker. The engine
// process itself stays under the caller's control.
func (b *Backdrop) Close() {
	b.run.close()
}

// hueToRadians maps a caller-facing hue in [0,1] onto the engine's expected
// [-π, π] range. The asymmetric piecewise mapping is a calibration contract
// with the backend and must be preserved exactly: values above the midpoint
// fold back down from +π, values at or below it scale out to -π.
func hueToRadians(hue float64) float64 {
	if hue > 0.5 {
		return (1 - hue) * 2 * math.Pi
	}
	return hue * 2 * -math.Pi
}

// sanitizePath normalizes a media path before handing it to the engine:
// surrounding whitespace is trimmed and bare www URLs get an explicit scheme.
func sanitizePath(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "www") {
		path = "http://" + path
	}
	return path
}
