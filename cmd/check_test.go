package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorBoxWidth(t *testing.T) {
	Convey("errorBoxWidth", t, func() {
		Convey("Should stay within the readable range", func() {
			w := errorBoxWidth()
			So(w, ShouldBeGreaterThanOrEqualTo, minBoxWidth)
			So(w, ShouldBeLessThanOrEqualTo, maxBoxWidth)
		})
	})
}
