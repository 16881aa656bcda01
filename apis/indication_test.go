package apis

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"

	"github.com/thiefmaster/towerlight/comm"
)

func TestIndicationSpec(t *testing.T) {
	Convey("an empty spec is steady green", t, func() {
		cmd, err := IndicationSpec{}.Command()
		So(err, ShouldBeNil)
		So(cmd, ShouldResemble, comm.NewSteadyCommand(comm.Green, comm.IntensityHigh))
	})

	Convey("a spec from yaml sets every field", t, func() {
		var spec IndicationSpec
		err := yaml.UnmarshalStrict([]byte(`
animation: half-half-rotate
color: spring-green
intensity: medium
color2: magenta
intensity2: low
speed: fast
pattern: strobe
rotation: clockwise
audible: pulsed
`), &spec)
		So(err, ShouldBeNil)

		ind, err := spec.Indication()
		So(err, ShouldBeNil)
		So(ind, ShouldResemble, comm.Indication{
			Color1:     comm.SpringGreen,
			Intensity1: comm.IntensityMedium,
			Animation:  comm.AnimationHalfHalfRotate,
			Speed:      comm.SpeedFast,
			Pattern:    comm.PatternStrobe,
			Color2:     comm.Magenta,
			Intensity2: comm.IntensityLow,
			Rotation:   comm.Clockwise,
			Audible:    comm.AudiblePulsed,
		})
	})

	Convey("a bad name names the field", t, func() {
		_, err := IndicationSpec{Speed: "ludicrous"}.Command()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "speed")
	})
}
