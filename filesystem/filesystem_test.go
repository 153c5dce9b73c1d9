package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackendSwitching(t *testing.T) {
	Convey("Filesystem backend", t, func() {
		Convey("Should swap to an in-memory backend", func() {
			SetMemMapFs()
			defer SetOsFs()

			So(API().Name(), ShouldEqual, "MemMapFS")

			err := API().WriteFile("/probe.txt", []byte("probe"), 0644)
			So(err, ShouldBeNil)

			data, err := API().ReadFile("/probe.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "probe")
		})

		Convey("Should restore the OS backend", func() {
			SetMemMapFs()
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})
	})
}
