package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/filesystem"
	"github.com/stagecast-av/stagecast/key"
)

func TestSetup(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should default the engine binary to mpv", func() {
			_ = Setup()
			So(viper.GetString(key.EnginePath), ShouldEqual, "mpv")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.fade.duration")
			So(result, ShouldEqual, "player_fade_duration")
		})

		Convey("Env should prefix field keys", func() {
			f := Default[key.LogsLevel]
			So(f.Env(), ShouldEqual, "STAGECAST_LOGS_LEVEL")
		})
	})
}
