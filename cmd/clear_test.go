package cmd

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stagecast-av/stagecast/filesystem"
	"github.com/stagecast-av/stagecast/util"
	"github.com/stagecast-av/stagecast/where"
)

func TestClear(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Clear", t, func() {
		Convey("Should remove the selected location", func() {
			probe := filepath.Join(where.Temp(), "leftover.sock")
			So(filesystem.API().WriteFile(probe, []byte("probe"), 0644), ShouldBeNil)

			So(clearCmd.Flags().Set("temp", "true"), ShouldBeNil)
			clearCmd.Run(clearCmd, nil)

			exists, err := filesystem.API().Exists(probe)
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Summary should quantify the cleared locations", func() {
			So(util.Quantify(1, "location", "locations"), ShouldEqual, "1 location")
			So(util.Quantify(2, "location", "locations"), ShouldEqual, "2 locations")
		})
	})
}
