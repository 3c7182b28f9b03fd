package gateway

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"temserver/internal/gamelogic"
	"temserver/internal/registry"
	"temserver/internal/room"
)

func mustPayload(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// drainTypes empties c's send buffer without blocking and returns the
// message types it held, in order.
func drainTypes(c *Client) []string {
	var types []string
	for {
		select {
		case env := <-c.send:
			types = append(types, env.Type)
		default:
			return types
		}
	}
}

func newTestGameLogic(hub *Hub) *gamelogic.GameLogic {
	store := room.NewStore(nil)
	reg := registry.New()
	return gamelogic.New(store, reg, hub, nil, "")
}

func TestDispatchJoinFlow(t *testing.T) {
	Convey("Given a Hub and a Game Logic bound to it", t, func() {
		hub := NewHub()
		gl := newTestGameLogic(hub)

		pf := &Client{handle: "pf1", hub: hub, gl: gl, send: make(chan Envelope, 8)}
		pm := &Client{handle: "pm1", hub: hub, gl: gl, send: make(chan Envelope, 8)}

		Convey("Joining as PF registers the client with the Hub under its room", func() {
			pf.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Pat", Role: "PF", Mode: "dual_player",
			})})
			So(pf.roomID, ShouldEqual, "room1")
			So(hub.RoomClientCount("room1"), ShouldEqual, 1)
		})

		Convey("A full PF+PM join sequence starts phase 1 and notifies both clients", func() {
			pf.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Pat", Role: "PF", Mode: "dual_player",
			})})
			pm.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Morgan", Role: "PM", Mode: "dual_player",
			})})
			So(hub.RoomClientCount("room1"), ShouldEqual, 2)
			So(drainTypes(pf), ShouldContain, "start_phase_1")
			So(drainTypes(pm), ShouldContain, "start_phase_1")

			Convey("get_briefing returns the static reference bulletins to the requester only", func() {
				pf.dispatch(Envelope{Type: "get_briefing", Room: "room1"})
				select {
				case env := <-pf.send:
					So(env.Type, ShouldEqual, "briefing_data")
				default:
					t.Fatal("PF did not receive briefing_data")
				}
				select {
				case env := <-pm.send:
					t.Fatalf("PM should not receive the PF's briefing_data, got %s", env.Type)
				default:
				}
			})

			Convey("PF identifying a threat sends the decision modal only to the PF", func() {
				pf.dispatch(Envelope{Type: "pf_identify_threat", Room: "room1", Payload: mustPayload(identifyThreatPayload{
					Keyword: "24015G25KT",
				})})
				select {
				case env := <-pf.send:
					So(env.Type, ShouldEqual, "show_pf_decision_modal")
				default:
					t.Fatal("PF did not receive the decision modal")
				}
				select {
				case env := <-pm.send:
					t.Fatalf("PM should not receive the PF decision modal, got %s", env.Type)
				default:
				}
			})

			Convey("Submitting a decision sends the verify panel to the PM", func() {
				pf.dispatch(Envelope{Type: "pf_identify_threat", Room: "room1", Payload: mustPayload(identifyThreatPayload{
					Keyword: "24015G25KT",
				})})
				<-pf.send // drain the decision modal

				pf.dispatch(Envelope{Type: "pf_submit_decision", Room: "room1", Payload: mustPayload(submitDecisionPayload{
					Keyword: "24015G25KT", OptionID: "standard_procedure",
				})})

				var sawModal bool
				select {
				case env := <-pf.send:
					sawModal = env.Type == "waiting_pm_verify"
				default:
				}
				So(sawModal, ShouldBeTrue)

				select {
				case env := <-pm.send:
					So(env.Type, ShouldEqual, "show_pm_verify_panel")
				default:
					t.Fatal("PM did not receive the verify panel")
				}
			})
		})

		Convey("Sending a message before joining yields an error_msg instead of a panic", func() {
			pf.dispatch(Envelope{Type: "pf_identify_threat", Room: "room1", Payload: mustPayload(identifyThreatPayload{
				Keyword: "24015G25KT",
			})})
			select {
			case env := <-pf.send:
				So(env.Type, ShouldEqual, "error_msg")
			default:
				t.Fatal("expected an error_msg for dispatch before join")
			}
		})

		Convey("An unrecognized message type is ignored without enqueuing anything", func() {
			pf.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Pat", Role: "PF", Mode: "dual_player",
			})})
			drainTypes(pf) // the join's own broadcasts
			pf.dispatch(Envelope{Type: "not_a_real_type", Room: "room1"})
			select {
			case env := <-pf.send:
				t.Fatalf("unexpected message enqueued: %s", env.Type)
			default:
			}
		})

		Convey("Joining a full room enqueues room_full instead of registering the client", func() {
			pf.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Pat", Role: "PF", Mode: "dual_player",
			})})
			pm.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Morgan", Role: "PM", Mode: "dual_player",
			})})
			third := &Client{handle: "pf2", hub: hub, gl: gl, send: make(chan Envelope, 8)}
			third.dispatch(Envelope{Type: "join", Payload: mustPayload(joinPayload{
				Room: "room1", Username: "Casey", Role: "PF", Mode: "dual_player",
			})})
			So(third.roomID, ShouldBeEmpty)
			select {
			case env := <-third.send:
				So(env.Type, ShouldEqual, "room_full")
			default:
				t.Fatal("expected room_full for the third joiner")
			}
		})
	})
}
