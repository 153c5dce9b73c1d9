package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFunnelOrdering(t *testing.T) {
	Convey("Funnel", t, func() {
		f := newFunnel()

		Convey("Should run units in submission order", func() {
			var got []int
			for i := 0; i < 20; i++ {
				i := i
				f.submit(func() { got = append(got, i) })
			}
			f.close()

			So(got, ShouldHaveLength, 20)
			for i, v := range got {
				So(v, ShouldEqual, i)
			}
		})

		Convey("submitWait should block until the unit has run", func() {
			ran := false
			f.submitWait(func() { ran = true })
			So(ran, ShouldBeTrue)
			f.close()
		})

		Convey("submitWait should run behind earlier submissions", func() {
			var got []string
			f.submit(func() { got = append(got, "first") })
			f.submitWait(func() { got = append(got, "second") })
			So(got, ShouldResemble, []string{"first", "second"})
			f.close()
		})

		Convey("close should drain queued units", func() {
			count := 0
			for i := 0; i < 10; i++ {
				f.submit(func() { count++ })
			}
			f.close()
			So(count, ShouldEqual, 10)
		})
	})
}
