package gateway

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestClient(handle string) *Client {
	return &Client{handle: handle, send: make(chan Envelope, 8)}
}

func TestHubBroadcast(t *testing.T) {
	Convey("Given a hub with two clients in one room and one in another", t, func() {
		h := NewHub()
		a := newTestClient("a")
		b := newTestClient("b")
		c := newTestClient("c")
		h.add("room1", a)
		h.add("room1", b)
		h.add("room2", c)

		Convey("ToRoom delivers only to clients in that room", func() {
			h.ToRoom("room1", "sys_msg", map[string]any{"msg": "hello"})

			var envA, envB Envelope
			select {
			case envA = <-a.send:
			default:
				t.Fatal("client a did not receive the broadcast")
			}
			select {
			case envB = <-b.send:
			default:
				t.Fatal("client b did not receive the broadcast")
			}
			So(envA.Type, ShouldEqual, "sys_msg")
			So(envB.Type, ShouldEqual, "sys_msg")

			select {
			case <-c.send:
				t.Fatal("client c in a different room should not receive the broadcast")
			default:
			}
		})

		Convey("RoomClientCount reports the live count per room", func() {
			So(h.RoomClientCount("room1"), ShouldEqual, 2)
			So(h.RoomClientCount("room2"), ShouldEqual, 1)
			So(h.RoomClientCount("nonexistent"), ShouldEqual, 0)
		})

		Convey("ToUser delivers to exactly the named handle", func() {
			h.ToUser("room1", "a", "show_pf_decision_modal", map[string]any{"keyword": "24015G25KT"})
			select {
			case env := <-a.send:
				So(env.Type, ShouldEqual, "show_pf_decision_modal")
				var payload map[string]any
				So(json.Unmarshal(env.Payload, &payload), ShouldBeNil)
				So(payload["keyword"], ShouldEqual, "24015G25KT")
			default:
				t.Fatal("client a did not receive the directed message")
			}
			select {
			case <-b.send:
				t.Fatal("client b should not receive a message directed at a")
			default:
			}
		})

		Convey("ToUser on an unconnected handle is a no-op, not a panic", func() {
			So(func() { h.ToUser("room1", "nonexistent", "sys_msg", map[string]any{}) }, ShouldNotPanic)
		})

		Convey("remove drops a client, deleting the room entry once empty", func() {
			h.remove("room2", "c")
			So(h.RoomClientCount("room2"), ShouldEqual, 0)
		})
	})
}
