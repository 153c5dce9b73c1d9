package engine

import (
	"crypto/rand"
	"fmt"
	"math"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/key"
	"github.com/stagecast-av/stagecast/log"
	"github.com/stagecast-av/stagecast/where"
)

// MPV drives a borderless mpv window through its JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	watcher    *finishWatcher
	mu         sync.Mutex // protects socket writes

	// Last requested window geometry. mpv only takes a combined geometry
	// string, so location and size updates are merged before sending.
	x, y, width, height int
}

// Compile-time interface checks.
var (
	_ Engine         = (*MPV)(nil)
	_ FinishNotifier = (*MPV)(nil)
)

// NewMPV creates a new mpv engine handle (does not launch the process).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
		width:  1280,
		height: 720,
	}
}

// Start launches the mpv process in idle mode with an IPC socket.
// The caller is expected to poll IsModuleLoaded until the socket accepts
// connections before issuing commands.
func (m *MPV) Start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Sockets(), fmt.Sprintf("backdrop-%x.sock", randomBytes))
	}

	// The backdrop window is decoration-free and starts hidden: the
	// visibility resolver decides when it appears.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--idle=yes",
		"--force-window=yes",
		"--no-border",
		"--no-osc",
		"--window-minimized=yes",
		fmt.Sprintf("--geometry=%dx%d+%d+%d", m.width, m.height, m.x, m.y),
	}
	args = append(args, viper.GetStringSlice(key.EngineArgs)...)

	m.cmd = exec.Command(viper.GetString(key.EnginePath), args...)

	// Detach from the parent process group so shell signals don't reach mpv.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	// Reap the process to prevent zombies.
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	return nil
}

// IsModuleLoaded reports whether the IPC socket is accepting connections.
func (m *MPV) IsModuleLoaded() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	conn, err := net.Dial("unix", m.socketPath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// IsInit reports whether the engine responds to a status probe.
func (m *MPV) IsInit() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Load replaces the currently loaded media with the given path.
func (m *MPV) Load(path string) error {
	_, err := m.sendCommand([]interface{}{"loadfile", path, "replace"})
	return err
}

// SetOptions applies a comma-separated list of property=value pairs.
func (m *MPV) SetOptions(options string) error {
	for _, opt := range parseOptions(options) {
		if _, err := m.sendCommand([]interface{}{"set_property_string", opt[0], opt[1]}); err != nil {
			return fmt.Errorf("option %s: %w", opt[0], err)
		}
	}
	return nil
}

// SetStretch controls whether video fills the window, ignoring aspect ratio.
func (m *MPV) SetStretch(stretch bool) error {
	return m.setProperty("keepaspect", !stretch)
}

// Play resumes playback of whatever is currently loaded.
func (m *MPV) Play() error {
	return m.setProperty("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.setProperty("pause", true)
}

// Stop unloads the current media and returns the engine to idle.
func (m *MPV) Stop() error {
	_, err := m.sendCommand([]interface{}{"stop"})
	return err
}

// IsPlaying reports whether media is loaded and actively playing.
func (m *MPV) IsPlaying() (bool, error) {
	idle, err := m.getBoolProperty("idle-active")
	if err != nil {
		return false, err
	}
	if idle {
		return false, nil
	}

	paused, err := m.getBoolProperty("pause")
	if err != nil {
		return false, err
	}
	return !paused, nil
}

// SetMute toggles audio output.
func (m *MPV) SetMute(mute bool) error {
	return m.setProperty("mute", mute)
}

// IsMute reports the current mute state.
func (m *MPV) IsMute() (bool, error) {
	return m.getBoolProperty("mute")
}

// ProgressPercent returns playback progress on a 0..1 scale.
func (m *MPV) ProgressPercent() (float64, error) {
	pos, err := m.getFloatProperty("percent-pos")
	if err != nil {
		return 0, err
	}
	return pos / 100, nil
}

// SetProgressPercent seeks to a relative position on a 0..1 scale.
func (m *MPV) SetProgressPercent(percent float64) error {
	return m.setProperty("percent-pos", percent*100)
}

// SetRepeat toggles infinite looping of the loaded media.
func (m *MPV) SetRepeat(repeat bool) error {
	value := "no"
	if repeat {
		value = "inf"
	}
	return m.setProperty("loop-file", value)
}

// SetFadeSpeed publishes the fade duration in seconds for the companion
// OSD fade script. mpv itself has no built-in fade control.
func (m *MPV) SetFadeSpeed(seconds float64) error {
	return m.setProperty("user-data/stagecast/fade-speed", seconds)
}

// SetHue maps a hue angle in radians [-π, π] onto mpv's integer -100..100
// hue equalizer range.
func (m *MPV) SetHue(radians float64) error {
	hue := int(math.Round(radians / math.Pi * 100))
	if hue > 100 {
		hue = 100
	}
	if hue < -100 {
		hue = -100
	}
	return m.setProperty("hue", hue)
}

// SetVisible shows or hides the backdrop window. The borderless window has
// no taskbar presence, so minimize is equivalent to hiding it.
func (m *MPV) SetVisible(visible bool) error {
	return m.setProperty("window-minimized", !visible)
}

// SetLocation moves the backdrop window to the given screen coordinates.
func (m *MPV) SetLocation(x, y int) error {
	m.x, m.y = x, y
	return m.applyGeometry()
}

// SetSize resizes the backdrop window.
func (m *MPV) SetSize(width, height int) error {
	m.width, m.height = width, height
	return m.applyGeometry()
}

func (m *MPV) applyGeometry() error {
	geometry := fmt.Sprintf("%dx%d+%d+%d", m.width, m.height, m.x, m.y)
	return m.setProperty("geometry", geometry)
}

// Time returns the elapsed playback time in milliseconds.
func (m *MPV) Time() (int64, error) {
	pos, err := m.getFloatProperty("time-pos")
	if err != nil {
		return 0, err
	}
	return int64(pos * 1000), nil
}

// Duration returns the total media duration in milliseconds.
func (m *MPV) Duration() (int64, error) {
	dur, err := m.getFloatProperty("duration")
	if err != nil {
		return 0, err
	}
	return int64(dur * 1000), nil
}

// Volume returns the current volume on a 0..1 scale.
func (m *MPV) Volume() (float64, error) {
	vol, err := m.getFloatProperty("volume")
	if err != nil {
		return 0, err
	}
	return vol / 100, nil
}

// SetVolume sets the volume on a 0..1 scale.
func (m *MPV) SetVolume(v float64) error {
	return m.setProperty("volume", v*100)
}

// NotifyFinish registers a callback fired when playback reaches end of file.
// Implements FinishNotifier using mpv's eof-reached property observer.
func (m *MPV) NotifyFinish(fn func()) error {
	if m.watcher != nil {
		m.watcher.Stop()
	}

	m.watcher = newFinishWatcher(m.socketPath, fn)
	return m.watcher.Start()
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}

	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC.
	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		log.Warnf("engine did not quit gracefully, killing")
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// setProperty is a helper to assign an mpv property via IPC.
func (m *MPV) setProperty(name string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", name, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// getBoolProperty is a helper to retrieve a bool mpv property via IPC.
func (m *MPV) getBoolProperty(name string) (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return false, err
	}

	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}

	return val, nil
}

// parseOptions splits a comma-separated "name=value,name=value" option string
// into name/value pairs. Malformed entries are skipped.
func parseOptions(options string) [][2]string {
	var pairs [][2]string
	for _, entry := range strings.Split(options, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			continue
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(name), strings.TrimSpace(value)})
	}
	return pairs
}
