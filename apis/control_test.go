package apis

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/thiefmaster/towerlight/comm"
)

func testResolver(name string) (comm.Command, error) {
	if name == "error" {
		return comm.NewFlashCommand(comm.Red, comm.IntensityHigh, comm.SpeedFast, comm.PatternNormal), nil
	}
	return comm.Command{}, errors.New("unknown state " + name)
}

func TestControlMessage(t *testing.T) {
	Convey("control messages map to commands", t, func() {
		cmd, err := ControlMessage{Action: "enable"}.Command(nil)
		So(err, ShouldBeNil)
		So(cmd.IsEnable(), ShouldBeTrue)

		cmd, err = ControlMessage{Action: "off"}.Command(nil)
		So(err, ShouldBeNil)
		So(cmd, ShouldResemble, comm.NewOffCommand())

		cmd, err = ControlMessage{
			Action:         "steady",
			IndicationSpec: IndicationSpec{Color: "amber", Intensity: "low", Animation: "chase"},
		}.Command(nil)
		So(err, ShouldBeNil)
		So(cmd, ShouldResemble, comm.NewSteadyCommand(comm.Amber, comm.IntensityLow))

		cmd, err = ControlMessage{Action: "state", State: "error"}.Command(testResolver)
		So(err, ShouldBeNil)
		ind, _ := cmd.Indication()
		So(ind.Animation, ShouldEqual, comm.AnimationFlash)
	})

	Convey("bad control messages are rejected", t, func() {
		_, err := ControlMessage{Action: "explode"}.Command(nil)
		So(errors.Is(err, errUnknownAction), ShouldBeTrue)

		_, err = ControlMessage{Action: "state", State: "error"}.Command(nil)
		So(err, ShouldEqual, errNoStates)

		_, err = ControlMessage{Action: "indication", IndicationSpec: IndicationSpec{Color: "ultraviolet"}}.Command(nil)
		So(errors.Is(err, comm.ErrUnknownValue), ShouldBeTrue)
	})
}

func TestControlServer(t *testing.T) {
	Convey("the control websocket forwards commands", t, func() {
		s := NewControlServer(testResolver)
		server := httptest.NewServer(s.Handler())
		defer server.Close()

		resp, err := http.Get(server.URL + "/healthz")
		So(err, ShouldBeNil)
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("valid messages are acknowledged and queued", func() {
			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"action": "steady", "color": "blue", "intensity": "medium"}`)), ShouldBeNil)
			var reply controlReply
			So(conn.ReadJSON(&reply), ShouldBeNil)
			So(reply.OK, ShouldBeTrue)
			So(reply.Error, ShouldEqual, "")

			req := <-s.Requests()
			So(req.Command, ShouldResemble, comm.NewSteadyCommand(comm.Blue, comm.IntensityMedium))
			So(req.Session, ShouldNotBeEmpty)
		})

		Convey("invalid messages get an error reply", func() {
			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"action": "state", "state": "party"}`)), ShouldBeNil)
			var reply controlReply
			So(conn.ReadJSON(&reply), ShouldBeNil)
			So(reply.OK, ShouldBeFalse)
			So(reply.Error, ShouldContainSubstring, "party")

			So(conn.WriteMessage(websocket.TextMessage, []byte(`not json`)), ShouldBeNil)
			So(conn.ReadJSON(&reply), ShouldBeNil)
			So(reply.Error, ShouldContainSubstring, "invalid message")
			So(len(s.Requests()), ShouldEqual, 0)
		})
	})
}
