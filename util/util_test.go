package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stagecast-av/stagecast/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(5, 0, 10), ShouldEqual, 5)
		So(Clamp(-1, 0, 10), ShouldEqual, 0)
		So(Clamp(11, 0, 10), ShouldEqual, 10)
		So(Clamp(0.75, 0.0, 1.0), ShouldEqual, 0.75)
	})
}

func TestDelete(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Delete", t, func() {
		Convey("Should remove a file", func() {
			So(filesystem.API().WriteFile("/f.txt", []byte("x"), 0644), ShouldBeNil)
			So(Delete("/f.txt"), ShouldBeNil)

			exists, _ := filesystem.API().Exists("/f.txt")
			So(exists, ShouldBeFalse)
		})

		Convey("Should remove a directory recursively", func() {
			So(filesystem.API().MkdirAll("/d/sub", 0755), ShouldBeNil)
			So(filesystem.API().WriteFile("/d/sub/f.txt", []byte("x"), 0644), ShouldBeNil)
			So(Delete("/d"), ShouldBeNil)

			exists, _ := filesystem.API().Exists("/d")
			So(exists, ShouldBeFalse)
		})

		Convey("Should surface an error for a missing path", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}
