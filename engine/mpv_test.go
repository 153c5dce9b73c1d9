package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseOptions(t *testing.T) {
	Convey("parseOptions", t, func() {
		Convey("Should split name=value pairs", func() {
			pairs := parseOptions("brightness=5,contrast=-3")
			So(pairs, ShouldHaveLength, 2)
			So(pairs[0], ShouldResemble, [2]string{"brightness", "5"})
			So(pairs[1], ShouldResemble, [2]string{"contrast", "-3"})
		})

		Convey("Should trim whitespace around entries", func() {
			pairs := parseOptions(" gamma = 2 ")
			So(pairs, ShouldHaveLength, 1)
			So(pairs[0], ShouldResemble, [2]string{"gamma", "2"})
		})

		Convey("Should skip malformed entries", func() {
			pairs := parseOptions("novalue,=orphan,ok=1")
			So(pairs, ShouldHaveLength, 1)
			So(pairs[0], ShouldResemble, [2]string{"ok", "1"})
		})

		Convey("Should return nothing for an empty string", func() {
			So(parseOptions(""), ShouldBeEmpty)
		})
	})
}

func TestProbesWithoutProcess(t *testing.T) {
	Convey("An unstarted engine", t, func() {
		m := NewMPV()

		Convey("Should not report its module loaded", func() {
			So(m.IsModuleLoaded(), ShouldBeFalse)
		})

		Convey("Should not report initialized", func() {
			So(m.IsInit(), ShouldBeFalse)
		})

		Convey("Should close without error", func() {
			So(m.Close(), ShouldBeNil)
		})
	})
}
