package room

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRoomInvariants(t *testing.T) {
	Convey("Given a freshly created room", t, func() {
		r := New("roomX")

		Convey("It starts in the waiting phase with no occupants", func() {
			So(r.Phase, ShouldEqual, PhaseWaiting)
			So(r.SeatedCount(), ShouldEqual, 0)
			So(r.ExpectedOccupancy(), ShouldEqual, 2)
		})

		Convey("Seating one human counts toward SeatedCount", func() {
			r.Users["pf1"] = User{Handle: "pf1", Role: RolePF}
			So(r.SeatedCount(), ShouldEqual, 1)
			So(r.RoleTaken(RolePF), ShouldBeTrue)
			So(r.RoleTaken(RolePM), ShouldBeFalse)
		})

		Convey("An AI occupant counts toward SeatedCount without a Users entry", func() {
			r.AIRole = RolePM
			So(r.SeatedCount(), ShouldEqual, 1)
			So(r.RoleTaken(RolePM), ShouldBeTrue)
		})

		Convey("single_player_with_ai mode expects only one seated human", func() {
			r.Mode = ModeSinglePlayerWithAI
			So(r.ExpectedOccupancy(), ShouldEqual, 1)
		})

		Convey("PeerIsAI reports the opposite seat's AI occupancy", func() {
			r.AIRole = RolePM
			So(r.PeerIsAI(RolePF), ShouldBeTrue)
			So(r.PeerIsAI(RolePM), ShouldBeFalse)
		})

		Convey("FindActorRole reports false for an unseated handle", func() {
			_, ok := r.FindActorRole("nobody")
			So(ok, ShouldBeFalse)
		})

		Convey("Chat history evicts the oldest entry past its cap", func() {
			for i := 0; i < chatHistoryCap+10; i++ {
				r.AppendChat(ChatMessage{Body: fmt.Sprintf("msg-%d", i)})
			}
			So(len(r.ChatHistory), ShouldEqual, chatHistoryCap)
			So(r.ChatHistory[0].Body, ShouldEqual, fmt.Sprintf("msg-%d", 10))
			So(r.ChatHistory[len(r.ChatHistory)-1].Body, ShouldEqual, fmt.Sprintf("msg-%d", chatHistoryCap+9))
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := NewStore(nil)

		Convey("GetOrCreate creates a room on first reference and reuses it after", func() {
			r1 := s.GetOrCreate("roomY")
			r2 := s.GetOrCreate("roomY")
			So(r1, ShouldEqual, r2)
			So(s.Len(), ShouldEqual, 1)
		})

		Convey("Get reports false for a room that was never created", func() {
			_, ok := s.Get("nope")
			So(ok, ShouldBeFalse)
		})

		Convey("Remove deletes a room so a later Get misses", func() {
			s.GetOrCreate("roomZ")
			s.Remove("roomZ")
			_, ok := s.Get("roomZ")
			So(ok, ShouldBeFalse)
			So(s.Len(), ShouldEqual, 0)
		})
	})
}
