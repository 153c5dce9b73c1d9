package engine

import (
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFinishWatcher(t *testing.T) {
	Convey("finishWatcher", t, func() {
		socket := filepath.Join(t.TempDir(), "engine.sock")
		ln, err := net.Listen("unix", socket)
		So(err, ShouldBeNil)
		defer ln.Close()

		received := make(chan string, 1)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			buf := make([]byte, 512)
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			received <- string(buf[:n])

			lines := []string{
				`{"request_id":0,"error":"success"}`,
				`{"event":"property-change","id":1,"name":"eof-reached","data":false}`,
				`{"event":"property-change","id":1,"name":"pause","data":true}`,
				`{"event":"property-change","id":1,"name":"eof-reached","data":true}`,
			}
			for _, line := range lines {
				if _, err := conn.Write([]byte(line + "\n")); err != nil {
					return
				}
			}
		}()

		finished := make(chan struct{}, 4)
		w := newFinishWatcher(socket, func() { finished <- struct{}{} })
		So(w.Start(), ShouldBeNil)
		defer w.Stop()

		Convey("Should subscribe on its own connection", func() {
			select {
			case cmd := <-received:
				So(cmd, ShouldContainSubstring, "observe_property")
				So(cmd, ShouldContainSubstring, "eof-reached")
				So(strings.HasSuffix(cmd, "\n"), ShouldBeTrue)
			case <-time.After(2 * time.Second):
				So("no subscription received", ShouldBeEmpty)
			}
		})

		Convey("Should fire only when eof-reached flips to true", func() {
			select {
			case <-finished:
			case <-time.After(2 * time.Second):
				So("callback never fired", ShouldBeEmpty)
			}

			// The false flip and the unrelated property must not fire.
			select {
			case <-finished:
				So("callback fired more than once", ShouldBeEmpty)
			case <-time.After(100 * time.Millisecond):
			}
		})
	})
}
