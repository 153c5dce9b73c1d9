package where

import (
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stagecast-av/stagecast/constant"
	"github.com/stagecast-av/stagecast/filesystem"
)

func TestPaths(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Path resolution", t, func() {
		Convey("Config should honor the override environment variable", func() {
			So(os.Setenv(EnvConfigPath, "/custom/config"), ShouldBeNil)
			defer os.Unsetenv(EnvConfigPath)

			So(Config(), ShouldEqual, "/custom/config")
		})

		Convey("Config should fall back to the user config directory", func() {
			os.Unsetenv(EnvConfigPath)
			So(strings.HasSuffix(Config(), constant.Stagecast), ShouldBeTrue)
		})

		Convey("Logs should nest under Config", func() {
			os.Unsetenv(EnvConfigPath)
			So(strings.HasPrefix(Logs(), Config()), ShouldBeTrue)
		})

		Convey("Sockets should nest under Temp", func() {
			So(strings.HasPrefix(Sockets(), Temp()), ShouldBeTrue)
		})

		Convey("Resolved directories should exist on the active filesystem", func() {
			exists, err := filesystem.API().DirExists(Temp())
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})
	})
}
