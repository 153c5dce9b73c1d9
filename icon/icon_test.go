package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/key"
)

func TestGet(t *testing.T) {
	Convey("Icon rendering", t, func() {
		Convey("Should respect the configured variant", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Success), ShouldEqual, "+")
			So(Get(Fail), ShouldEqual, "x")

			viper.Set(key.IconsVariant, "emoji")
			So(Get(Success), ShouldEqual, "✅")
		})

		Convey("Should render empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "bogus")
			So(Get(Success), ShouldBeEmpty)
		})

		Convey("Should register every variant identifier", func() {
			So(AvailableVariants(), ShouldContain, "plain")
			So(AvailableVariants(), ShouldHaveLength, 4)
		})
	})
}
