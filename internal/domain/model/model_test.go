package model_test

import (
	"encoding/json"
	"testing"

	"github.com/avolkov/paddock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshotQueries(t *testing.T) {
	Convey("Given a snapshot with results across tracks", t, func() {
		snap := &model.Snapshot{
			Results: []model.SessionResult{
				{Track: "Sakhir", Driver: "Max VERSTAPPEN", Number: 1},
				{Track: "Sakhir", Driver: "Lewis HAMILTON", Number: 44},
				{Track: "Jeddah", Driver: "Lewis HAMILTON", Number: 44},
			},
			Drivers: []model.Competitor{
				{Number: 44, Name: "Lewis HAMILTON"},
				{Number: 1, Name: "Max VERSTAPPEN"},
			},
			CurrentTeams: map[int]string{44: "Ferrari"},
		}

		Convey("When querying driver results by partial name", func() {
			results := snap.DriverResults("hamil")

			Convey("Then the match is a case-insensitive substring", func() {
				So(results, ShouldHaveLength, 2)
				So(results[0].Track, ShouldEqual, "Sakhir")
				So(results[1].Track, ShouldEqual, "Jeddah")
			})
		})

		Convey("When listing tracks", func() {
			Convey("Then duplicates collapse in result order", func() {
				So(snap.Tracks(), ShouldResemble, []string{"Sakhir", "Jeddah"})
			})
		})

		Convey("When listing driver names", func() {
			Convey("Then names come back sorted", func() {
				So(snap.DriverNames(), ShouldResemble, []string{"Lewis HAMILTON", "Max VERSTAPPEN"})
			})
		})

		Convey("When looking up current teams", func() {
			team, ok := snap.CurrentTeam(44)
			So(ok, ShouldBeTrue)
			So(team, ShouldEqual, "Ferrari")

			_, ok = snap.CurrentTeam(99)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Given the classification outcomes", t, func() {
		Convey("Then only finished counts as classified", func() {
			So(model.StatusFinished.Classified(), ShouldBeTrue)
			So(model.StatusDNF.Classified(), ShouldBeFalse)
			So(model.StatusDNS.Classified(), ShouldBeFalse)
			So(model.StatusDSQ.Classified(), ShouldBeFalse)
			So(model.StatusNotClassified.Classified(), ShouldBeFalse)
		})

		Convey("Then statuses render as their display labels in JSON", func() {
			b, err := json.Marshal(model.StatusDSQ)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"DSQ"`)
		})
	})

	Convey("Given a session with and without a circuit name", t, func() {
		So(model.Session{Circuit: "Monza", Location: "Italy"}.Track(), ShouldEqual, "Monza")
		So(model.Session{Location: "Italy"}.Track(), ShouldEqual, "Italy")
	})
}
