package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// finishWatcher holds a persistent IPC connection observing mpv's
// eof-reached property and fires a callback whenever playback runs out.
//
// The observation must be registered on the same connection the events are
// read from: mpv only pushes property-change notifications to the client
// that subscribed them.
type finishWatcher struct {
	socketPath string
	onFinish   func()

	mu      sync.Mutex
	conn    net.Conn
	running bool
}

func newFinishWatcher(socketPath string, onFinish func()) *finishWatcher {
	return &finishWatcher{
		socketPath: socketPath,
		onFinish:   onFinish,
	}
}

// Start subscribes to the eof-reached property and begins reading events.
func (w *finishWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn, err := net.Dial("unix", w.socketPath)
	if err != nil {
		return fmt.Errorf("finish watcher connect: %w", err)
	}

	payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", 1, "eof-reached"}})
	if err != nil {
		conn.Close()
		return fmt.Errorf("marshal observe command: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		conn.Close()
		return fmt.Errorf("observe eof-reached: %w", err)
	}

	w.conn = conn
	w.running = true
	go w.watch()

	return nil
}

// Stop closes the connection, which unblocks and ends the watch loop.
func (w *finishWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.conn.Close()
	w.running = false
}

// watch reads newline-delimited JSON events until the connection closes and
// fires the callback each time eof-reached flips to true. Non-event lines,
// such as the reply to the observe command itself, are skipped.
func (w *finishWatcher) watch() {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	scanner := bufio.NewScanner(w.conn)
	for scanner.Scan() {
		var event struct {
			Event string      `json:"event"`
			Name  string      `json:"name"`
			Data  interface{} `json:"data"`
		}

		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}

		if event.Event != "property-change" || event.Name != "eof-reached" {
			continue
		}

		if reached, ok := event.Data.(bool); ok && reached {
			w.onFinish()
		}
	}
}
