package player

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/key"
)

// fakeEngine records every call in order and answers queries from canned
// state. It deliberately does not implement engine.FinishNotifier; see
// finishEngine below.
type fakeEngine struct {
	moduleLoaded bool
	initOK       bool

	playing  bool
	mute     bool
	progress float64
	timeMs   int64
	totalMs  int64
	volume   float64

	loadErr  error
	queryErr error

	calls []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{moduleLoaded: true, initOK: true, volume: 1}
}

func (e *fakeEngine) record(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *fakeEngine) IsModuleLoaded() bool { return e.moduleLoaded }
func (e *fakeEngine) IsInit() bool         { return e.initOK }

func (e *fakeEngine) Load(path string) error {
	e.record("load %s", path)
	return e.loadErr
}

func (e *fakeEngine) SetOptions(options string) error {
	e.record("options %s", options)
	return nil
}

func (e *fakeEngine) SetStretch(stretch bool) error {
	e.record("stretch %t", stretch)
	return nil
}

func (e *fakeEngine) Play() error {
	e.record("play")
	e.playing = true
	return nil
}

func (e *fakeEngine) Pause() error {
	e.record("pause")
	return nil
}

func (e *fakeEngine) Stop() error {
	e.record("stop")
	e.playing = false
	return nil
}

func (e *fakeEngine) IsPlaying() (bool, error) { return e.playing, e.queryErr }

func (e *fakeEngine) SetMute(mute bool) error {
	e.record("mute %t", mute)
	e.mute = mute
	return nil
}

func (e *fakeEngine) IsMute() (bool, error) { return e.mute, e.queryErr }

func (e *fakeEngine) ProgressPercent() (float64, error) { return e.progress, e.queryErr }

func (e *fakeEngine) SetProgressPercent(percent float64) error {
	e.record("progress %g", percent)
	return nil
}

func (e *fakeEngine) SetRepeat(repeat bool) error {
	e.record("repeat %t", repeat)
	return nil
}

func (e *fakeEngine) SetFadeSpeed(seconds float64) error {
	e.record("fade %g", seconds)
	return nil
}

func (e *fakeEngine) SetHue(radians float64) error {
	e.record("hue %.4f", radians)
	return nil
}

func (e *fakeEngine) SetVisible(visible bool) error {
	e.record("visible %t", visible)
	return nil
}

func (e *fakeEngine) SetLocation(x, y int) error {
	e.record("location %d,%d", x, y)
	return nil
}

func (e *fakeEngine) SetSize(width, height int) error {
	e.record("size %dx%d", width, height)
	return nil
}

func (e *fakeEngine) Time() (int64, error)     { return e.timeMs, e.queryErr }
func (e *fakeEngine) Duration() (int64, error) { return e.totalMs, e.queryErr }
func (e *fakeEngine) Volume() (float64, error) { return e.volume, e.queryErr }

func (e *fakeEngine) SetVolume(v float64) error {
	e.record("volume %g", v)
	e.volume = v
	return nil
}

// finishEngine adds a finish signal on top of fakeEngine.
type finishEngine struct {
	*fakeEngine
	onFinish func()
}

func (e *finishEngine) NotifyFinish(fn func()) error {
	e.onFinish = fn
	return nil
}

func newBackdrop(eng *fakeEngine) *Backdrop {
	return New(eng, NewFixedHost(0, 0, 1280, 720))
}

// sync waits for every previously submitted command to finish.
func sync(b *Backdrop) {
	b.run.submitWait(func() {})
}

func TestStartupGate(t *testing.T) {
	Convey("Startup gate", t, func() {
		Convey("Should initialise when the engine comes up", func() {
			eng := newFakeEngine()
			b := newBackdrop(eng)
			defer b.Close()

			So(b.IsInit(), ShouldBeTrue)
		})

		Convey("Should stay inert when the engine never comes up", func() {
			oldTimeout, oldInterval := startupTimeout, startupProbeInterval
			startupTimeout = 5 * time.Millisecond
			startupProbeInterval = time.Millisecond
			defer func() {
				startupTimeout, startupProbeInterval = oldTimeout, oldInterval
			}()

			eng := newFakeEngine()
			eng.moduleLoaded = false
			b := newBackdrop(eng)
			defer b.Close()

			So(b.IsInit(), ShouldBeFalse)

			b.PlayFile("video.mp4", "", false)
			b.Show()
			b.Pause()
			sync(b)

			So(eng.calls, ShouldBeEmpty)
			So(b.LastLocation(), ShouldEqual, "video.mp4")
		})
	})
}

func TestLoad(t *testing.T) {
	viper.Set(key.PlayerFadeDuration, 1000)

	Convey("Load", t, func() {
		eng := newFakeEngine()
		b := newBackdrop(eng)
		defer b.Close()

		Convey("Should sanitize www paths and trim whitespace", func() {
			b.Load("  www.example.com/v.mp4 ", "", false)
			sync(b)

			So(eng.calls, ShouldContain, "load http://www.example.com/v.mp4")
		})

		Convey("Should leave ordinary paths alone", func() {
			b.Load("/media/clip.mp4", "", false)
			sync(b)

			So(eng.calls, ShouldContain, "load /media/clip.mp4")
		})

		Convey("Should stop a playing video before loading", func() {
			eng.playing = true
			b.Load("next.mp4", "", false)
			sync(b)

			So(eng.calls, ShouldResemble, []string{"stop", "stretch false", "load next.mp4"})
		})

		Convey("Should skip options when empty and apply them otherwise", func() {
			b.Load("a.mp4", "", false)
			sync(b)
			So(eng.calls, ShouldNotContain, "options ")

			b.Load("b.mp4", "loop=yes", true)
			sync(b)
			So(eng.calls, ShouldContain, "options loop=yes")
			So(eng.calls, ShouldContain, "stretch true")
		})

		Convey("Should clear the paused flag", func() {
			b.Pause()
			b.Load("a.mp4", "", false)
			So(b.IsPaused(), ShouldBeFalse)
		})
	})
}

func TestPlayFile(t *testing.T) {
	viper.Set(key.PlayerFadeDuration, 1000)

	Convey("PlayFile", t, func() {
		eng := newFakeEngine()
		b := newBackdrop(eng)
		defer b.Close()

		Convey("Should load, apply fade speed and play in order", func() {
			b.PlayFile("clip.mp4", "", true)
			sync(b)

			So(eng.calls, ShouldResemble, []string{
				"stretch true",
				"load clip.mp4",
				"fade 1",
				"play",
			})
		})

		Convey("Should record the requested location until Stop", func() {
			b.PlayFile("clip.mp4", "", false)
			So(b.LastLocation(), ShouldEqual, "clip.mp4")

			b.Stop()
			So(b.LastLocation(), ShouldEqual, "")
		})

		Convey("Should not sanitize the path", func() {
			b.PlayFile("www.example.com/v.mp4", "", false)
			sync(b)

			So(eng.calls, ShouldContain, "load www.example.com/v.mp4")
		})
	})
}

func TestPauseStop(t *testing.T) {
	viper.Set(key.PlayerFadeDuration, 1000)

	Convey("Pause and Stop", t, func() {
		eng := newFakeEngine()
		b := newBackdrop(eng)
		defer b.Close()

		Convey("Pause sets the paused flag, Play clears it", func() {
			b.Pause()
			So(b.IsPaused(), ShouldBeTrue)

			b.Play()
			So(b.IsPaused(), ShouldBeFalse)
		})

		Convey("Stop clears the paused flag", func() {
			b.Pause()
			b.Stop()
			So(b.IsPaused(), ShouldBeFalse)
			sync(b)
			So(eng.calls, ShouldContain, "stop")
		})
	})
}

func TestHue(t *testing.T) {
	viper.Set(key.PlayerFadeDuration, 1000)

	Convey("Hue", t, func() {
		Convey("hueToRadians maps the unit interval onto [-π, π]", func() {
			So(hueToRadians(0), ShouldEqual, 0)
			So(hueToRadians(0.25), ShouldAlmostEqual, -math.Pi/2)
			So(hueToRadians(0.5), ShouldAlmostEqual, -math.Pi)
			So(hueToRadians(0.75), ShouldAlmostEqual, math.Pi/2)
			So(hueToRadians(1), ShouldAlmostEqual, 0)
		})

		Convey("SetHue shadows the raw value and pushes radians", func() {
			eng := newFakeEngine()
			b := newBackdrop(eng)
			defer b.Close()

			b.SetHue(0.25)
			So(b.Hue(), ShouldEqual, 0.25)
			So(eng.calls, ShouldContain, fmt.Sprintf("hue %.4f", -math.Pi/2))
		})

		Convey("Hue shadow updates even when the engine never came up", func() {
			oldTimeout, oldInterval := startupTimeout, startupProbeInterval
			startupTimeout = 5 * time.Millisecond
			startupProbeInterval = time.Millisecond
			defer func() {
				startupTimeout, startupProbeInterval = oldTimeout, oldInterval
			}()

			eng := newFakeEngine()
			eng.moduleLoaded = false
			b := newBackdrop(eng)
			defer b.Close()

			b.SetHue(0.8)
			So(b.Hue(), ShouldEqual, 0.8)
			So(eng.calls, ShouldBeEmpty)
		})

		Convey("FadeHue pushes the hue then replays the last load", func() {
			eng := newFakeEngine()
			b := newBackdrop(eng)
			defer b.Close()

			b.PlayFile("clip.mp4", "loop=yes", true)
			sync(b)
			eng.calls = nil

			b.FadeHue(0.8)
			sync(b)

			So(eng.calls, ShouldResemble, []string{
				fmt.Sprintf("hue %.4f", (1-0.8)*2*math.Pi),
				"stop",
				"options loop=yes",
				"stretch true",
				"load clip.mp4",
				"fade 1",
				"play",
			})
			So(b.LastLocation(), ShouldEqual, "clip.mp4")
		})

		Convey("FadeHue before init keeps the shadow but replays nothing", func() {
			oldTimeout, oldInterval := startupTimeout, startupProbeInterval
			startupTimeout = 5 * time.Millisecond
			startupProbeInterval = time.Millisecond
			defer func() {
				startupTimeout, startupProbeInterval = oldTimeout, oldInterval
			}()

			eng := newFakeEngine()
			eng.moduleLoaded = false
			b := newBackdrop(eng)
			defer b.Close()

			b.PlayFile("clip.mp4", "", false)
			b.FadeHue(0.4)

			So(b.Hue(), ShouldEqual, 0.4)
			So(b.LastLocation(), ShouldEqual, "clip.mp4")
			So(eng.calls, ShouldBeEmpty)
		})

		Convey("FadeHue replays the last accepted load, not a failed one", func() {
			eng := newFakeEngine()
			b := newBackdrop(eng)
			defer b.Close()

			b.Load("good.mp4", "", false)
			sync(b)
			eng.loadErr = errors.New("unreadable")
			b.Load("bad.mp4", "", false)
			sync(b)
			eng.loadErr = nil
			eng.calls = nil

			b.FadeHue(0.1)
			sync(b)

			So(eng.calls, ShouldContain, "load good.mp4")
			So(eng.calls, ShouldNotContain, "load bad.mp4")
		})
	})
}

func TestVisibility(t *testing.T) {
	Convey("Visibility", t, func() {
		eng := newFakeEngine()
		b := newBackdrop(eng)
		defer b.Close()

		last := func() string { return eng.calls[len(eng.calls)-1] }

		Convey("Show and Hide push the derived value", func() {
			b.Show()
			sync(b)
			So(last(), ShouldEqual, "visible true")

			b.Hide()
			sync(b)
			So(last(), ShouldEqual, "visible false")
		})

		Convey("Hide button overrides the shown flag", func() {
			b.Show()
			b.SetHideButton(true)
			sync(b)
			So(last(), ShouldEqual, "visible false")

			b.SetHideButton(false)
			sync(b)
			So(last(), ShouldEqual, "visible true")
		})

		Convey("Releasing the hide button while hidden stays hidden", func() {
			b.Hide()
			b.SetHideButton(true)
			b.SetHideButton(false)
			sync(b)
			So(last(), ShouldEqual, "visible false")
		})
	})
}

func TestRefreshPosition(t *testing.T) {
	Convey("RefreshPosition", t, func() {
		eng := newFakeEngine()
		host := NewFixedHost(100, 50, 800, 600)
		b := New(eng, host)
		defer b.Close()

		Convey("Mirrors a showing host", func() {
			b.RefreshPosition()
			sync(b)

			So(eng.calls, ShouldResemble, []string{
				"visible true",
				"location 100,50",
				"size 800x600",
			})
		})

		Convey("Hides when the host is hidden", func() {
			host.Visible = false
			b.RefreshPosition()
			sync(b)

			So(eng.calls, ShouldResemble, []string{"visible false"})
		})
	})
}

func TestQueries(t *testing.T) {
	Convey("Best-effort queries", t, func() {
		eng := newFakeEngine()
		b := newBackdrop(eng)
		defer b.Close()

		Convey("Return real values when the engine answers", func() {
			eng.timeMs = 1500
			eng.totalMs = 60000
			eng.volume = 0.35
			eng.progress = 0.5
			eng.playing = true
			eng.mute = true

			So(b.Time(), ShouldEqual, 1500)
			So(b.Total(), ShouldEqual, 60000)
			So(b.Volume(), ShouldEqual, 35)
			So(b.ProgressPercent(), ShouldEqual, 0.5)
			So(b.IsPlaying(), ShouldBeTrue)
			So(b.IsMute(), ShouldBeTrue)
		})

		Convey("Fall back to defaults when the engine errors", func() {
			eng.queryErr = errors.New("ipc down")

			So(b.Time(), ShouldEqual, 0)
			So(b.Total(), ShouldEqual, 0)
			So(b.Volume(), ShouldEqual, 100)
			So(b.ProgressPercent(), ShouldEqual, 0)
			So(b.IsPlaying(), ShouldBeFalse)
			So(b.IsMute(), ShouldBeFalse)
		})

		Convey("Clamp negative time reports to zero", func() {
			eng.timeMs = -1
			eng.totalMs = -1

			So(b.Time(), ShouldEqual, 0)
			So(b.Total(), ShouldEqual, 0)
		})

		Convey("SetVolume converts to the engine's 0..1 scale", func() {
			b.SetVolume(50)
			sync(b)
			So(eng.calls, ShouldContain, "volume 0.5")
		})
	})
}

func TestSetOnFinished(t *testing.T) {
	Convey("SetOnFinished", t, func() {
		Convey("Wires through engines that signal finish", func() {
			eng := &finishEngine{fakeEngine: newFakeEngine()}
			b := New(eng, NewFixedHost(0, 0, 1, 1))
			defer b.Close()

			finished := false
			b.SetOnFinished(func() { finished = true })
			sync(b)

			So(eng.onFinish, ShouldNotBeNil)
			eng.onFinish()
			So(finished, ShouldBeTrue)
		})

		Convey("Is absorbed by engines without a finish signal", func() {
			eng := newFakeEngine()
			b := newBackdrop(eng)
			defer b.Close()

			b.SetOnFinished(func() {})
			sync(b)

			So(eng.calls, ShouldBeEmpty)
		})
	})
}
